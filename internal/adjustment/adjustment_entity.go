package adjustment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Adjustment types. Credits add to an employee's earnings, debits subtract.
const (
	TypeBonus           = "BONUS"
	TypeAddition        = "ADDITION"
	TypeAdvance         = "ADVANCE"
	TypeDeduction       = "DEDUCTION"
	TypeEmployeeExpense = "EMPLOYEE_EXPENSE"
	TypeCommission      = "COMMISSION"
)

// Adjustment is one financial event for one employee. A multi-recipient
// disbursement is stored as one row per recipient, all carrying the same
// GroupID and the same per-employee Amount; TotalAmount records the
// aggregate (amount x recipient count) for financial statements, while
// payroll always uses the per-employee Amount.
type Adjustment struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID        uuid.UUID      `gorm:"column:group_id;type:uuid;not null;index"`
	Type           string         `gorm:"column:type;type:varchar(20);not null;index"`
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index"`
	VehicleID      *uuid.UUID     `gorm:"column:vehicle_id;type:uuid;index"`
	Amount         float64        `gorm:"column:amount;type:numeric(12,2);not null"`
	TotalAmount    float64        `gorm:"column:total_amount;type:numeric(12,2);not null"`
	AdjustmentDate time.Time      `gorm:"column:adjustment_date;type:date;not null;index"`
	Installments   int            `gorm:"column:installments;not null;default:1"`
	VisitType      *string        `gorm:"column:visit_type;type:varchar(120)"`
	Remarks        *string        `gorm:"column:remarks;type:text"`
	CreatedBy      uuid.UUID      `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Adjustment) TableName() string {
	return "adjustments"
}

// IsCredit reports whether the type adds to employee earnings.
func IsCredit(adjType string) bool {
	switch adjType {
	case TypeBonus, TypeAddition, TypeCommission:
		return true
	}
	return false
}

// IsDebit reports whether the type subtracts from employee earnings.
func IsDebit(adjType string) bool {
	switch adjType {
	case TypeAdvance, TypeDeduction, TypeEmployeeExpense:
		return true
	}
	return false
}

func validType(adjType string) bool {
	return IsCredit(adjType) || IsDebit(adjType)
}
