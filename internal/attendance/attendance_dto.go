package attendance

type CheckInRequest struct {
	Source string  `json:"source"`
	Notes  *string `json:"notes"`
}

type CheckOutRequest struct {
	Notes *string `json:"notes"`
}

// ManualEntryRequest records or backfills a full day at once, e.g. from a
// bulk attendance sheet upload. Times are HH:MM on the given date.
type ManualEntryRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes"`
}

// CorrectionRequest adjusts an existing record. Derived hours are always
// recomputed from the corrected times.
type CorrectionRequest struct {
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
}

type ListFilterRequest struct {
	EmployeeID string `form:"employee_id"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	CheckIn        *string `json:"check_in,omitempty"`
	CheckOut       *string `json:"check_out,omitempty"`
	BreakStart     *string `json:"break_start,omitempty"`
	BreakEnd       *string `json:"break_end,omitempty"`
	HoursWorked    float64 `json:"hours_worked"`
	OvertimeHours  float64 `json:"overtime_hours"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	Notes          *string `json:"notes,omitempty"`
}
