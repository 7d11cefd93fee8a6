package counter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Counter types for document numbering.
const (
	TypeVehicleStock   = "VEHICLE_STOCK"
	TypePayrollRef     = "PAYROLL_REF"
	TypeAdjustment     = "ADJUSTMENT"
	TypeEmployeeNumber = "EMPLOYEE_NUMBER"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, counterType string, scope string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetNextValue atomically increments and returns the sequence for a counter
// type within a scope (e.g. the year for stock numbers, the period key for
// payroll references). The UPSERT keeps concurrent callers from racing.
func (r *repository) GetNextValue(ctx context.Context, counterType string, scope string) (int64, error) {
	var nextValue int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_counters (counter_type, scope, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (counter_type, scope) DO UPDATE
		SET last_value = document_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, counterType, scope).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// YearScope formats a calendar year as a counter scope.
func YearScope(year int) string {
	return fmt.Sprintf("%d", year)
}

// StockNumber formats a vehicle stock number, e.g. VH-2024-0042.
func StockNumber(year int, seq int64) string {
	return fmt.Sprintf("VH-%d-%04d", year, seq)
}

// PayrollRef formats a payroll reference number, e.g. PR-2024-04-0007.
func PayrollRef(periodKey string, seq int64) string {
	return fmt.Sprintf("PR-%s-%04d", periodKey, seq)
}

// EmployeeNumber formats an employee number, e.g. EMP-000042.
func EmployeeNumber(seq int64) string {
	return fmt.Sprintf("EMP-%06d", seq)
}
