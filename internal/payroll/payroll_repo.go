package payroll

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, row *PayrollRecord) error
	Update(ctx context.Context, row *PayrollRecord) error
	FindByID(ctx context.Context, id string) (*PayrollRecord, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeID, periodKey string) (*PayrollRecord, error)
	FindAll(ctx context.Context, periodKey, employeeID, status string) ([]PayrollRecord, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, row *PayrollRecord) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Update(ctx context.Context, row *PayrollRecord) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollRecord, error) {
	var row PayrollRecord
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, employeeID, periodKey string) (*PayrollRecord, error) {
	var row PayrollRecord
	err := r.db.WithContext(ctx).
		First(&row, "employee_id = ? AND period_key = ?", employeeID, periodKey).Error
	return &row, err
}

func (r *repository) FindAll(ctx context.Context, periodKey, employeeID, status string) ([]PayrollRecord, error) {
	db := r.db.WithContext(ctx)
	if periodKey != "" {
		db = db.Where("period_key = ?", periodKey)
	}
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var rows []PayrollRecord
	err := db.Order("period_key DESC, payroll_ref ASC").Find(&rows).Error
	return rows, err
}
