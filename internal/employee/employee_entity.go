package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employment statuses.
const (
	StatusActive     = "ACTIVE"
	StatusOnLeave    = "ON_LEAVE"
	StatusTerminated = "TERMINATED"
)

// Employee is the canonical staff record. Everything payroll needs lives
// here as flat columns: the basic monthly salary, the position title, the
// hire date. There is no separate salary table to fall out of sync with.
type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"uniqueIndex"`
	FullName       string
	Email          string `gorm:"uniqueIndex"`
	Phone          string
	Position       string
	BasicSalary    float64 `gorm:"type:numeric(12,2)"`
	HireDate       time.Time
	Status         string `gorm:"default:ACTIVE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func validStatus(s string) bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}
