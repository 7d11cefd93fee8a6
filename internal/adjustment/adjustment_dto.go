package adjustment

// CreateAdjustmentRequest creates one adjustment for one or more recipient
// employees. Every recipient receives the full per-employee amount; the
// disbursed total is amount x recipient count.
type CreateAdjustmentRequest struct {
	Type         string   `json:"type" binding:"required"`
	EmployeeIDs  []string `json:"employee_ids" binding:"required,min=1"`
	Amount       float64  `json:"amount"`
	Date         string   `json:"date" binding:"required"`
	Installments int      `json:"installments"`
	VehicleID    *string  `json:"vehicle_id"`
	VisitType    *string  `json:"visit_type"`
	Remarks      *string  `json:"remarks"`
}

type ListFilterRequest struct {
	EmployeeID string `form:"employee_id"`
	Type       string `form:"type"`
	Period     string `form:"period"`
}

type AdjustmentResponse struct {
	ID           string  `json:"id"`
	GroupID      string  `json:"group_id"`
	Type         string  `json:"type"`
	EmployeeID   string  `json:"employee_id"`
	VehicleID    *string `json:"vehicle_id,omitempty"`
	Amount       float64 `json:"amount"`
	TotalAmount  float64 `json:"total_amount"`
	Date         string  `json:"date"`
	Installments int     `json:"installments"`
	VisitType    *string `json:"visit_type,omitempty"`
	Remarks      *string `json:"remarks,omitempty"`
	CreatedBy    string  `json:"created_by"`
}

type EmployeeBalanceResponse struct {
	EmployeeID string  `json:"employee_id"`
	Credits    float64 `json:"credits"`
	Debits     float64 `json:"debits"`
	Net        float64 `json:"net"`
}

type VehicleBalanceResponse struct {
	VehicleID string  `json:"vehicle_id"`
	Credits   float64 `json:"credits"`
	Debits    float64 `json:"debits"`
	Net       float64 `json:"net"`
}

type ReconciliationResponse struct {
	Period    string                    `json:"period"`
	Employees []EmployeeBalanceResponse `json:"employees"`
}

type VehicleReconciliationResponse struct {
	Period   string                   `json:"period"`
	Vehicles []VehicleBalanceResponse `json:"vehicles"`
}

type VisitTypeResponse struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}
