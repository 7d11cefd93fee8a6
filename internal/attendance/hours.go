package attendance

import (
	"time"

	attendanceerrors "go-dms/internal/attendance/errors"
)

// Hours beyond this count as overtime.
const regularHoursPerDay = 8.0

// DayHours is the derived split of a single day's worked time.
type DayHours struct {
	Regular  float64
	Overtime float64
}

// Total returns regular plus overtime hours.
func (h DayHours) Total() float64 {
	return h.Regular + h.Overtime
}

// ComputeDayHours derives the regular/overtime split from a day's
// timestamps. A day missing either check time yields zero hours without
// error; the employee simply has nothing on the clock. Malformed input
// (check-out before check-in, a one-sided or inverted break, a break longer
// than the shift) is rejected, never silently corrected.
func ComputeDayHours(checkIn, checkOut, breakStart, breakEnd *time.Time) (DayHours, error) {
	if checkIn == nil || checkOut == nil {
		return DayHours{}, nil
	}

	raw := checkOut.Sub(*checkIn)
	if raw < 0 {
		return DayHours{}, attendanceerrors.ErrCheckOutBeforeCheckIn
	}

	var brk time.Duration
	switch {
	case breakStart == nil && breakEnd == nil:
		// no break taken
	case breakStart == nil || breakEnd == nil:
		return DayHours{}, attendanceerrors.ErrIncompleteBreak
	default:
		brk = breakEnd.Sub(*breakStart)
		if brk < 0 {
			return DayHours{}, attendanceerrors.ErrBreakEndBeforeStart
		}
	}

	worked := raw - brk
	if worked < 0 {
		return DayHours{}, attendanceerrors.ErrBreakLongerThanShift
	}

	hours := worked.Hours()
	if hours <= regularHoursPerDay {
		return DayHours{Regular: hours}, nil
	}
	return DayHours{
		Regular:  regularHoursPerDay,
		Overtime: hours - regularHoursPerDay,
	}, nil
}

// recompute refreshes the derived hour fields on the record.
func (a *Attendance) recompute() error {
	hours, err := ComputeDayHours(a.CheckIn, a.CheckOut, a.BreakStart, a.BreakEnd)
	if err != nil {
		return err
	}
	a.HoursWorked = hours.Total()
	a.OvertimeHours = hours.Overtime
	return nil
}
