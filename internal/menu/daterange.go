package menu

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoDateRange is returned when the text has no "D Month YYYY - D Month YYYY" range.
	ErrNoDateRange = errors.New("no date range found")
	// ErrUnknownMonth is returned when a month word is not an English month name.
	ErrUnknownMonth = errors.New("unknown month name")
	// ErrInvalidDate is returned for impossible dates and for ranges that end before they start.
	ErrInvalidDate = errors.New("invalid date")
)

// DateRangeError describes why header text could not be resolved.
type DateRangeError struct {
	Text string // matched range, or the whole input when nothing matched
	Err  error
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("resolving date range %q: %v", e.Text, e.Err)
}

func (e *DateRangeError) Unwrap() error {
	return e.Err
}

// Extract date range from text like "28 July 2025 - 01 August 2025"
var dateRangePattern = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})\s*-\s*(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`)

var months = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// DateRange is an inclusive span of calendar days. Both ends are UTC midnight.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Days returns the number of calendar days in the range, counting both ends.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.Start.Format(ISODate) + ".." + r.End.Format(ISODate)
}

// ResolveDateRange finds the first "D Month YYYY - D Month YYYY" range in
// text, e.g. "28 July 2025 - 01 August 2025". No other date format is
// recognised. The returned error wraps ErrNoDateRange, ErrUnknownMonth or
// ErrInvalidDate.
func ResolveDateRange(text string) (DateRange, error) {
	m := dateRangePattern.FindStringSubmatch(text)
	if m == nil {
		return DateRange{}, &DateRangeError{Text: text, Err: ErrNoDateRange}
	}

	start, err := buildDate(m[1], m[2], m[3])
	if err != nil {
		return DateRange{}, &DateRangeError{Text: m[0], Err: err}
	}
	end, err := buildDate(m[4], m[5], m[6])
	if err != nil {
		return DateRange{}, &DateRangeError{Text: m[0], Err: err}
	}
	if end.Before(start) {
		return DateRange{}, &DateRangeError{Text: m[0], Err: fmt.Errorf("%w: range ends before it starts", ErrInvalidDate)}
	}

	return DateRange{Start: start, End: end}, nil
}

func buildDate(dayText, monthText, yearText string) (time.Time, error) {
	month, ok := months[strings.ToLower(monthText)]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownMonth, monthText)
	}
	// The pattern guarantees digits, so Atoi cannot fail
	day, _ := strconv.Atoi(dayText)
	year, _ := strconv.Atoi(yearText)

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: %s %s %s", ErrInvalidDate, dayText, monthText, yearText)
	}
	return t, nil
}
