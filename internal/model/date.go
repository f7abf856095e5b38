package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day, anchored at local midnight.
type Date struct {
	t time.Time
}

// NewDate returns the date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates t to its local calendar day.
func DateOf(t time.Time) Date {
	t = t.In(time.Local)
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns now truncated to 00:00:00 local time.
func Today(now time.Time) Date {
	return DateOf(now)
}

// ParseDate parses a date in DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns the local midnight of the date.
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays returns the date n calendar days after d.
func (d Date) AddDays(n int) Date {
	return NewDate(d.t.Year(), d.t.Month(), d.t.Day()+n)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.civil() < o.civil() }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.civil() > o.civil() }

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool { return d.civil() == o.civil() }

// String formats d in DateLayout.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Ptr returns a pointer to a copy of d.
func (d Date) Ptr() *Date { return &d }

// Clone copies a nullable date.
func (d *Date) Clone() *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// DaysBetween returns the number of calendar days from a to b (negative when
// b is before a). Days are counted on the civil calendar, so DST shifts never
// yield fractional days.
func DaysBetween(a, b Date) int {
	return int((b.civil() - a.civil()) / 86400)
}

// civil maps the calendar day onto UTC seconds, where every day is 86400s.
func (d Date) civil() int64 {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// MarshalJSON encodes the date as "2006-01-02", or null for the zero date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "2006-01-02", a full RFC 3339 timestamp, an empty
// string or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("decoding date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}
