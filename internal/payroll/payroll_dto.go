package payroll

// GeneratePayrollRequest computes payroll for one period. With no employee
// ids every active employee is included.
type GeneratePayrollRequest struct {
	Period      string   `json:"period" binding:"required"`
	EmployeeIDs []string `json:"employee_ids"`
}

type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	PaymentDate   string `json:"payment_date" binding:"required"`
}

type ListFilterRequest struct {
	Period     string `form:"period"`
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
}

type PayrollResponse struct {
	ID            string  `json:"id"`
	PayrollRef    string  `json:"payroll_ref"`
	EmployeeID    string  `json:"employee_id"`
	Period        string  `json:"period"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	HourlyRate    float64 `json:"hourly_rate"`
	BasicPay      float64 `json:"basic_pay"`
	OvertimePay   float64 `json:"overtime_pay"`
	Credits       float64 `json:"credits"`
	GrossPay      float64 `json:"gross_pay"`
	Tax           float64 `json:"tax"`
	Debits        float64 `json:"debits"`
	NetPay        float64 `json:"net_pay"`
	Status        string  `json:"status"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty"`
	PayslipURL    *string `json:"payslip_url,omitempty"`
	GeneratedBy   string  `json:"generated_by"`
}
