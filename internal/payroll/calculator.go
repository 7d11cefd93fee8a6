package payroll

import (
	"go-dms/internal/attendance"
	"go-dms/internal/payperiod"
	payrollerrors "go-dms/internal/payroll/errors"
	"go-dms/internal/shared/money"
)

// The hourly rate divides the monthly salary by a fixed 240 hours
// regardless of how many working days the period actually has.
const salaryHoursPerMonth = 240.0

const overtimeMultiplier = 1.5

// Stepped flat tax: a single rate applies to the whole gross, picked by
// which bracket the gross lands in.
const (
	taxUpperThreshold = 5000.0
	taxLowerThreshold = 3000.0
	taxUpperRate      = 0.15
	taxMiddleRate     = 0.10
	taxLowerRate      = 0.05
)

// CalculationInput is everything the pay computation needs, already
// aggregated. Credits are the period's bonuses, additions and commissions;
// Debits are advance installments, deductions and employee expenses.
type CalculationInput struct {
	BasicSalary   float64
	RegularHours  float64
	OvertimeHours float64
	Credits       float64
	Debits        float64
}

// Calculation holds every derived pay figure, each rounded exactly once.
type Calculation struct {
	HourlyRate  float64
	BasicPay    float64
	OvertimePay float64
	GrossPay    float64
	Tax         float64
	NetPay      float64
}

// TaxRate returns the flat rate applied to the whole gross amount. The
// brackets do not stack; crossing a threshold re-rates everything.
func TaxRate(gross float64) float64 {
	switch {
	case gross > taxUpperThreshold:
		return taxUpperRate
	case gross > taxLowerThreshold:
		return taxMiddleRate
	default:
		return taxLowerRate
	}
}

// Calculate derives the pay figures from the aggregated inputs. A period
// with zero attendance is valid: basic and overtime collapse to zero and
// only the adjustments move the net.
func Calculate(in CalculationInput) Calculation {
	rate := money.Round2(in.BasicSalary / salaryHoursPerMonth)
	basic := money.Round2(in.RegularHours * rate)
	overtime := money.Round2(in.OvertimeHours * rate * overtimeMultiplier)
	gross := money.Round2(basic + overtime + in.Credits)
	tax := money.Round2(gross * TaxRate(gross))
	net := money.Round2(gross - tax - in.Debits)

	return Calculation{
		HourlyRate:  rate,
		BasicPay:    basic,
		OvertimePay: overtime,
		GrossPay:    gross,
		Tax:         tax,
		NetPay:      net,
	}
}

// SumHours totals the regular and overtime hours of a period's attendance
// rows. A row dated outside the period is a data error, not something to
// silently drop.
func SumHours(rows []attendance.Attendance, period payperiod.Period) (regular, overtime float64, err error) {
	for _, row := range rows {
		if !period.Contains(row.AttendanceDate) {
			return 0, 0, payrollerrors.ErrAttendanceOutsidePeriod
		}
		regular += row.HoursWorked
		overtime += row.OvertimeHours
	}
	return regular, overtime, nil
}
