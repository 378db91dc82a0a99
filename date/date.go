// Package date implements the calendar day used as a grid column.
//
// Columns are identified by their ISO-8601 text ("2024-01-31"). The format is
// fixed width, so sorting the text sorts the days.
package date

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Format is the only accepted layout for a day.
const Format = "2006-01-02"

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in the local time zone.
func Today() Date { return New(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// String formats the date in its ISO form.
func (d Date) String() string { return d.time().Format(Format) }

// Parse parses a day in the strict "YYYY-MM-DD" form.
//
// Unlike time.Parse, single digit months or days are rejected, and so are
// days that do not exist ("2025-02-31").
func Parse(str string) (Date, error) {
	if len(str) != len(Format) {
		return Date{}, fmt.Errorf("invalid date %q want format %q", str, "YYYY-MM-DD")
	}
	on, err := time.Parse(Format, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, "YYYY-MM-DD", err)
	}
	d := New(on.Date())
	if d.String() != str {
		return Date{}, fmt.Errorf("invalid date %q: not a calendar day", str)
	}
	return d, nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Valid reports whether str is a day in the strict ISO form.
func Valid(str string) bool {
	_, err := Parse(str)
	return err == nil
}

// Normalize trims, dedupes and sorts a list of day texts.
//
// Entries that are not valid days are returned separately, in input order, and
// are not part of days. Blank entries are dropped silently.
func Normalize(list []string) (days []string, invalid []string) {
	seen := make(map[string]bool, len(list))
	for _, raw := range list {
		v := strings.TrimSpace(raw)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		if !Valid(v) {
			invalid = append(invalid, v)
			continue
		}
		days = append(days, v)
	}
	slices.Sort(days)
	return days, invalid
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	v, err := Parse(str)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
