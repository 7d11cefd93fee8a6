package payperiod

import (
	"fmt"
	"time"
)

// Period is the payroll month a transaction is attributed to. The dealership
// closes its books on the 20th: the period named "April" covers 21 March
// through 20 April.
type Period struct {
	Month time.Month
	Year  int
}

// Resolve returns the period a calendar date belongs to. Dates after the
// 20th roll into the next month's period, December rolls into January of
// the following year. Callers supply dates already normalized to the
// business timezone.
func Resolve(t time.Time) Period {
	month := t.Month()
	year := t.Year()
	if t.Day() > 20 {
		if month == time.December {
			return Period{Month: time.January, Year: year + 1}
		}
		return Period{Month: month + 1, Year: year}
	}
	return Period{Month: month, Year: year}
}

// Next returns the period immediately after p.
func (p Period) Next() Period {
	return p.Add(1)
}

// Add returns the period n months after p. Negative n walks backwards.
func (p Period) Add(n int) Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Period{Month: t.Month(), Year: t.Year()}
}

// Bounds returns the first and last calendar day covered by p: the 21st of
// the previous month through the 20th of p's own month.
func (p Period) Bounds() (start, end time.Time) {
	end = time.Date(p.Year, p.Month, 20, 0, 0, 0, 0, time.UTC)
	start = end.AddDate(0, -1, 1)
	return start, end
}

// Contains reports whether the calendar date t falls inside p.
func (p Period) Contains(t time.Time) bool {
	return Resolve(t) == p
}

// Key returns the stable "YYYY-MM" grouping key for p.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// ParseKey parses a "YYYY-MM" key produced by Key.
func ParseKey(key string) (Period, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period key %q, expected YYYY-MM", key)
	}
	return Period{Month: t.Month(), Year: t.Year()}, nil
}
