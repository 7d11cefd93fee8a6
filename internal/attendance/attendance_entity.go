package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
	StatusLeave   = "LEAVE"
	StatusLate    = "LATE"
)

// Attendance is one employee's record for one calendar date. HoursWorked and
// OvertimeHours are always derived from the four timestamps; they are
// recomputed on every change and never taken from input.
type Attendance struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index:idx_employee_date,unique"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;index:idx_employee_date,unique"`
	CheckIn        *time.Time     `gorm:"column:check_in;type:timestamptz"`
	CheckOut       *time.Time     `gorm:"column:check_out;type:timestamptz"`
	BreakStart     *time.Time     `gorm:"column:break_start;type:timestamptz"`
	BreakEnd       *time.Time     `gorm:"column:break_end;type:timestamptz"`
	HoursWorked    float64        `gorm:"column:hours_worked;type:numeric(5,2);not null;default:0"`
	OvertimeHours  float64        `gorm:"column:overtime_hours;type:numeric(5,2);not null;default:0"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	Source         string         `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`
	Notes          *string        `gorm:"column:notes;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee       *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

func validStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave, StatusLate:
		return true
	}
	return false
}
