package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, row *Employee) error
	Update(ctx context.Context, row *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindAll(ctx context.Context, status string) ([]Employee, error)
	FindActive(ctx context.Context) ([]Employee, error)
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

func (r *repository) Create(ctx context.Context, row *Employee) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Update(ctx context.Context, row *Employee) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var row Employee
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var row Employee
	err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error
	return &row, err
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Employee, error) {
	db := r.db.WithContext(ctx)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var rows []Employee
	err := db.Order("full_name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindActive(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Order("full_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}
