package menu

import (
	"errors"
	"testing"
	"time"
)

func TestResolveDateRange(t *testing.T) {
	text := `WEEKLY MENU
    28 July 2025 - 01 August 2025
    Some other text`

	got, err := ResolveDateRange(text)
	if err != nil {
		t.Fatalf("ResolveDateRange() error = %v", err)
	}

	wantStart := time.Date(2025, time.July, 28, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	if !got.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", got.Start, wantStart)
	}
	if !got.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", got.End, wantEnd)
	}
	if got.Days() != 5 {
		t.Errorf("Days() = %d, want 5", got.Days())
	}
}

func TestResolveDateRange_Variants(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantStart string
		wantEnd   string
	}{
		{"single digit days", "3 March 2025 - 7 March 2025", "2025-03-03", "2025-03-07"},
		{"no spaces around dash", "27 May 2024-31 May 2024", "2024-05-27", "2024-05-31"},
		{"upper case month", "28 JULY 2025 - 01 AUGUST 2025", "2025-07-28", "2025-08-01"},
		{"year boundary", "29 December 2025 - 02 January 2026", "2025-12-29", "2026-01-02"},
		{"first range wins", "1 June 2025 - 5 June 2025 and 8 June 2025 - 12 June 2025", "2025-06-01", "2025-06-05"},
		{"single day", "4 July 2025 - 4 July 2025", "2025-07-04", "2025-07-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDateRange(tt.text)
			if err != nil {
				t.Fatalf("ResolveDateRange(%q) error = %v", tt.text, err)
			}
			if s := got.Start.Format(ISODate); s != tt.wantStart {
				t.Errorf("Start = %s, want %s", s, tt.wantStart)
			}
			if e := got.End.Format(ISODate); e != tt.wantEnd {
				t.Errorf("End = %s, want %s", e, tt.wantEnd)
			}
		})
	}
}

func TestResolveDateRange_InvalidFormat(t *testing.T) {
	headers := []string{
		`WEEKLY MENU
    July 28, 2025 - August 1, 2025
    Some other text`,
		`WEEKLY MENU
    07-28-2025 - 08-01-2025`,
		`WEEKLY MENU
    2025-07-28 - 2025-08-01`,
		"",
		"28 July - 01 August",
	}

	for _, header := range headers {
		_, err := ResolveDateRange(header)
		if !errors.Is(err, ErrNoDateRange) {
			t.Errorf("ResolveDateRange(%q) error = %v, want ErrNoDateRange", header, err)
		}

		var rangeErr *DateRangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("ResolveDateRange(%q) error %T is not a *DateRangeError", header, err)
		}
	}
}

func TestResolveDateRange_BadValues(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"abbreviated month", "28 Jul 2025 - 01 Aug 2025", ErrUnknownMonth},
		{"misspelled month", "28 Julyy 2025 - 01 August 2025", ErrUnknownMonth},
		{"impossible day", "31 February 2025 - 04 March 2025", ErrInvalidDate},
		{"day zero", "0 March 2025 - 04 March 2025", ErrInvalidDate},
		{"end before start", "01 August 2025 - 28 July 2025", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveDateRange(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("ResolveDateRange(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestDateRange_String(t *testing.T) {
	r := DateRange{
		Start: time.Date(2025, time.July, 28, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
	}

	if got := r.String(); got != "2025-07-28..2025-08-01" {
		t.Errorf("String() = %q", got)
	}
}
