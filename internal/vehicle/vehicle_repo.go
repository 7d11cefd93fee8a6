package vehicle

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=vehicle_repo.go -destination=mock/vehicle_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, row *Vehicle) error
	Update(ctx context.Context, row *Vehicle) error
	FindByID(ctx context.Context, id string) (*Vehicle, error)
	FindByVIN(ctx context.Context, vin string) (*Vehicle, error)
	FindAll(ctx context.Context, status, make string) ([]Vehicle, error)
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

func (r *repository) Create(ctx context.Context, row *Vehicle) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Update(ctx context.Context, row *Vehicle) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	var row Vehicle
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) FindByVIN(ctx context.Context, vin string) (*Vehicle, error) {
	var row Vehicle
	err := r.db.WithContext(ctx).First(&row, "vin = ?", vin).Error
	return &row, err
}

func (r *repository) FindAll(ctx context.Context, status, vehicleMake string) ([]Vehicle, error) {
	db := r.db.WithContext(ctx)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if vehicleMake != "" {
		db = db.Where("make = ?", vehicleMake)
	}

	var rows []Vehicle
	err := db.Order("stock_number ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Vehicle{}, "id = ?", id).Error
}
