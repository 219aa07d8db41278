// Package period models calendar months: the unit both conversion tools
// date their output in.
package period

import (
	"fmt"
	"time"
)

// DateLayout is the only date format the tools read and write.
const DateLayout = "2006-01-02"

// Month is a calendar month of a four-digit year.
type Month struct {
	Year  int
	Month time.Month
}

// TryMake validates year and month and returns the Month. Years run from
// 1 to 9999.
func TryMake(year, month int) (Month, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return Month{}, fmt.Errorf("cannot represent year %d and month %d", year, month)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// Make is TryMake for values known to be valid; it panics otherwise.
func Make(year, month int) Month {
	m, err := TryMake(year, month)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseDate parses a strict YYYY-MM-DD date. The day must exist in the
// month but is otherwise discarded.
func ParseDate(s string) (Month, error) {
	if len(s) != len(DateLayout) {
		return Month{}, fmt.Errorf("invalid length %d", len(s))
	}
	tm, err := time.Parse(DateLayout, s)
	if err != nil {
		return Month{}, err
	}
	return TryMake(tm.Year(), int(tm.Month()))
}

// AddMonths moves n calendar months forward (or back for negative n),
// rolling the year over as needed. It fails when the result falls outside
// years 1 to 9999.
func (m Month) AddMonths(n int) (Month, error) {
	tm := m.FirstDay().AddDate(0, n, 0)
	return TryMake(tm.Year(), int(tm.Month()))
}

// FirstDay returns midnight UTC on the first day of the month.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// FirstDayString renders the first day of the month as YYYY-MM-01.
func (m Month) FirstDayString() string {
	return m.String() + "-01"
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.FirstDayString()), nil
}

func (m *Month) UnmarshalText(data []byte) error {
	v, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
