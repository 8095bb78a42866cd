package domain

import (
	"fmt"
	"time"
)

// CalendarDate is a day-granularity date with no time-of-day or timezone
// component. The zero value means "no date".
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCalendarDate parses a YYYY-MM-DD string into its calendar
// components. The empty string parses to the zero value. The result is
// built from the decomposed components, so the same input yields the
// same calendar day in every process timezone.
func ParseCalendarDate(s string) (CalendarDate, error) {
	if s == "" {
		return CalendarDate{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Today returns the current calendar day in the local timezone.
func Today() CalendarDate {
	y, m, d := time.Now().Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// IsZero reports whether the date is absent.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// String formats the date as YYYY-MM-DD. The zero value formats as "".
func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight of the date in the given location.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d falls on an earlier calendar day than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Equal reports whether d and other are the same calendar day.
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d == other
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when absent.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" or null.
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = CalendarDate{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected string or null", s)
	}
	parsed, err := ParseCalendarDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
