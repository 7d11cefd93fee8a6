package employee

type CreateEmployeeRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone"`
	Position    string  `json:"position" binding:"required"`
	BasicSalary float64 `json:"basic_salary" binding:"required,gt=0"`
	HireDate    string  `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       string  `json:"phone"`
	Position    string  `json:"position" binding:"required"`
	BasicSalary float64 `json:"basic_salary" binding:"required,gt=0"`
	HireDate    string  `json:"hire_date" binding:"required"`
	Status      string  `json:"status" binding:"required"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone,omitempty"`
	Position       string  `json:"position"`
	BasicSalary    float64 `json:"basic_salary"`
	HireDate       string  `json:"hire_date"`
	Status         string  `json:"status"`
}

// EmployeeOptionResponse is the slim shape for dropdowns and pickers.
type EmployeeOptionResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Position       string `json:"position"`
}
