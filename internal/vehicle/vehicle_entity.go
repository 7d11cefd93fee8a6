package vehicle

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle statuses.
const (
	StatusInStock     = "IN_STOCK"
	StatusMaintenance = "MAINTENANCE"
	StatusSold        = "SOLD"
)

// Vehicle is one unit of dealership inventory. The stock number is the
// business identifier printed on paperwork; the UUID is internal.
type Vehicle struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	StockNumber   string    `gorm:"uniqueIndex"`
	VIN           string    `gorm:"uniqueIndex"`
	Make          string
	Model         string
	ModelYear     int
	Color         string
	Mileage       int
	PurchasePrice float64 `gorm:"type:numeric(12,2)"`
	PurchaseDate  time.Time
	SalePrice     *float64 `gorm:"type:numeric(12,2)"`
	SaleDate      *time.Time
	SoldBy        *uuid.UUID `gorm:"type:uuid"`
	Status        string     `gorm:"default:IN_STOCK;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func validStatus(s string) bool {
	switch s {
	case StatusInStock, StatusMaintenance, StatusSold:
		return true
	}
	return false
}
