package payroll

import (
	"time"

	"github.com/google/uuid"
)

// Record lifecycle. A record starts PENDING, is locked in as PROCESSED,
// and becomes PAID once the money moves. A payment made in error can be
// reversed back to PENDING.
const (
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
	StatusPaid      = "PAID"
)

// Payment methods.
const (
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentCash         = "CASH"
	PaymentCheque       = "CHEQUE"
)

// PayrollRecord is one employee's computed pay for one period. Every derived
// figure is stored as computed so the record stays auditable even if the
// inputs (attendance, adjustments, salary) change later.
type PayrollRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayrollRef    string    `gorm:"uniqueIndex"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_payroll_employee_period"`
	PeriodKey     string    `gorm:"uniqueIndex:idx_payroll_employee_period"`
	RegularHours  float64
	OvertimeHours float64
	HourlyRate    float64 `gorm:"type:numeric(12,2)"`
	BasicPay      float64 `gorm:"type:numeric(12,2)"`
	OvertimePay   float64 `gorm:"type:numeric(12,2)"`
	Credits       float64 `gorm:"type:numeric(12,2)"`
	GrossPay      float64 `gorm:"type:numeric(12,2)"`
	Tax           float64 `gorm:"type:numeric(12,2)"`
	Debits        float64 `gorm:"type:numeric(12,2)"`
	NetPay        float64 `gorm:"type:numeric(12,2)"`
	Status        string  `gorm:"default:PENDING;index"`
	PaymentMethod *string
	PaymentDate   *time.Time
	PayslipURL    *string
	GeneratedBy   uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func validPaymentMethod(m string) bool {
	switch m {
	case PaymentBankTransfer, PaymentCash, PaymentCheque:
		return true
	}
	return false
}
