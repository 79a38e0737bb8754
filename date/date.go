// Package date provides a day-granularity Date type and the lenient parsers
// used both on the command line and when reading raw records.
package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

const Day = 24 * time.Hour

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime returns the day t falls on, in t's own location.
// The zero time gives the zero Date.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return New(t.Date())
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String format the date in its standard format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// IsToday reports whether d is the current day.
func (d Date) IsToday() bool { return d == Today() }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// ISOWeek returns the ISO 8601 year and week number in which d occurs.
func (d Date) ISOWeek() (year, week int) { return d.time().ISOWeek() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns midnight UTC of that day.
func (d Date) Time() time.Time { return d.time() }

// Format returns a textual representation of the date value formatted according to the layout defined by the argument.
//
//	See the documentation for the [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// StartOf returns the date of begining of a given period
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		weekday := d.Weekday() // time.Sunday = 0, ..., time.Saturday = 6
		offset := int(weekday - time.Monday)
		for offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case Monthly:
		return New(d.Year(), d.Month(), 1)
	case Quarterly:
		quarter := (d.Month() - 1) / 3
		startMonth := time.Month(quarter*3 + 1)
		return New(d.Year(), startMonth, 1)
	case Yearly:
		return New(d.Year(), time.January, 1)
	default:
		panic("unknown period")
	}
}

// EndOf returns the date of end of a given period
func (d Date) EndOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		weekday := d.Weekday()
		offset := int(7 - weekday)
		for offset >= 7 {
			offset -= 7
		}
		return d.Add(offset)
	case Monthly:
		return New(d.Year(), d.Month()+1, 0)
	case Quarterly:
		quarter := (d.Month() - 1) / 3        // in [0..3]
		endMonth := time.Month(quarter*3 + 3) // in [1..12] hence the +3
		return New(d.Year(), endMonth+1, 0)   // last is next month on the day 0
	case Yearly:
		return New(d.Year()+1, time.January, 0)
	default:
		panic("unknown period")
	}
}

var relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmqy])$`)

// Parse parses a Date typed by a user. Besides the formats accepted by
// ParseTimestamp, it accepts relative dates like "-1d", "+2w", "-3m" and "0d" for today.
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)

	if str == "0d" {
		return Today(), nil
	}

	if match := relativeDateRE.FindStringSubmatch(str); match != nil {
		num, err := strconv.Atoi(match[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid number in relative date %q: %w", str, err)
		}
		if match[1] == "-" {
			num = -num
		}
		today := Today()
		switch match[3] {
		case "d":
			return today.Add(num), nil
		case "w":
			return today.Add(num * 7), nil
		case "m":
			return New(today.Year(), today.Month()+time.Month(num), today.Day()), nil
		case "q":
			return New(today.Year(), today.Month()+time.Month(num*3), today.Day()), nil
		case "y":
			return New(today.Year()+num, today.Month(), today.Day()), nil
		}
	}

	on, ok := ParseTimestamp(str)
	if !ok {
		return Date{}, fmt.Errorf("invalid date %q want format %q", str, readDateFormat)
	}
	return FromTime(on), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	readDateFormat,
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006/1/2",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseTimestamp parses the date formats found in raw records. It reports
// false when str matches none of them; callers treat such values as absent.
// Slash dates are read month first.
func ParseTimestamp(str string) (time.Time, bool) {
	str = strings.TrimSpace(str)
	if str == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if on, err := time.Parse(layout, str); err == nil {
			return on, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*j = Date{}
		return nil
	}
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	*j = New(on.Date())
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
