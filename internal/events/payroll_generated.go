package events

import "time"

const PayrollGeneratedTopic = "dms.payroll.generated.v1"

// PayrollGeneratedEvent is published when a payroll record is computed and
// persisted for an employee/period. The payslip consumer reacts to it.
type PayrollGeneratedEvent struct {
	EventType   string    `json:"event_type"`
	PayrollID   string    `json:"payroll_id"`
	EmployeeID  string    `json:"employee_id"`
	PeriodKey   string    `json:"period_key"`
	NetPay      float64   `json:"net_pay"`
	GeneratedBy string    `json:"generated_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
