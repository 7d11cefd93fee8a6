package adjustment

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// How far back reconciliation looks for advances still paying out. No
// advance is spread over more installments than this many months.
const installmentLookbackMonths = 36

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, rows []Adjustment) error
	FindByID(ctx context.Context, id string) (*Adjustment, error)
	FindByDateRange(ctx context.Context, from, to time.Time, employeeID, adjType string) ([]Adjustment, error)
	FindActiveThrough(ctx context.Context, employeeID string, end time.Time) ([]Adjustment, error)
	Delete(ctx context.Context, id string) error
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

func (r *repository) CreateBatch(ctx context.Context, rows []Adjustment) error {
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Adjustment, error) {
	var row Adjustment
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) FindByDateRange(ctx context.Context, from, to time.Time, employeeID, adjType string) ([]Adjustment, error) {
	db := r.db.WithContext(ctx).
		Where("adjustment_date BETWEEN ? AND ?", from, to)

	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	if adjType != "" {
		db = db.Where("type = ?", adjType)
	}

	var rows []Adjustment
	err := db.Order("adjustment_date DESC").Find(&rows).Error
	return rows, err
}

// FindActiveThrough returns adjustments dated up to end, reaching back far
// enough to include advances whose installments may still land in the
// period ending at end. An empty employeeID returns all employees.
func (r *repository) FindActiveThrough(ctx context.Context, employeeID string, end time.Time) ([]Adjustment, error) {
	from := end.AddDate(0, -installmentLookbackMonths, 0)

	db := r.db.WithContext(ctx).
		Where("adjustment_date BETWEEN ? AND ?", from, end)
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}

	var rows []Adjustment
	err := db.Order("adjustment_date ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Adjustment{}, "id = ?", id).Error
}
