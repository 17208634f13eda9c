package valueobjects

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// ISODayLayout is how days travel on the wire and in storage
	ISODayLayout = "2006-01-02"
	// DisplayDayLayout is how days are shown to users
	DisplayDayLayout = "02/01/2006"
)

// Day is a calendar day without time of day or zone.
type Day struct {
	t time.Time
}

// NewDay builds a Day from its parts
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a time to its calendar day in the time's own location
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// ParseDay parses a YYYY-MM-DD string
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(ISODayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// MustParseDay panics on malformed input. Intended for fixtures.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the day is unset
func (d Day) IsZero() bool { return d.t.IsZero() }

// Equal reports whether both values are the same calendar day
func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// Before reports whether d is earlier than other
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }

// Compare returns -1, 0 or +1
func (d Day) Compare(other Day) int { return d.t.Compare(other.t) }

// String formats the day as YYYY-MM-DD
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISODayLayout)
}

// Display formats the day as DD/MM/YYYY
func (d Day) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DisplayDayLayout)
}

// MarshalJSON implements json.Marshaler
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
