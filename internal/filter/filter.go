// Package filter narrows a parsed menu down to the days and meals a user
// cares about.
//
// Criteria combine with AND:
//   - Date range (from/to dates, inclusive)
//   - Meals (subset of BREAKFAST, LUNCH, PM SNACK)
//   - Keywords (substring matching on meal text, case-insensitive)
//   - Weekdays only (Monday to Friday)
//
// Day labels that never resolved to a date carry no date, so date criteria
// let them through; meal and keyword criteria still apply.
//
// Example usage:
//
//	// Lunches with pizza from the 28th onwards
//	f := filter.NewFilter()
//	f.Meals = []menu.Meal{menu.Lunch}
//	f.Keywords = []string{"pizza"}
//	from, _ := filter.ParseDate("2025-07-28")
//	f.DateFrom = from
//
//	filtered := f.Apply(finalMenu)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/lunch-line/internal/menu"
)

// Filter represents menu filtering criteria
type Filter struct {
	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Meal filtering; empty keeps every meal
	Meals []menu.Meal `json:"meals,omitempty"`

	// Meal text filtering (case-insensitive substring match)
	Keywords []string `json:"keywords,omitempty"`

	// Weekday-only filtering (Monday to Friday)
	WeekdaysOnly bool `json:"weekdays_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match every day until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Meals:    []menu.Meal{},
		Keywords: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Meals) == 0 &&
		len(f.Keywords) == 0 &&
		!f.WeekdaysOnly
}

// MatchesDate reports whether a menu key passes the date criteria.
// Keys that are not ISO dates always pass.
func (f *Filter) MatchesDate(key string) bool {
	date, ok := menu.ParseISODate(key)
	if !ok {
		return true
	}

	// Check date range
	if f.DateFrom != nil && date.Before(truncateDay(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && date.After(truncateDay(*f.DateTo)) {
		return false
	}

	// Check weekdays only
	if f.WeekdaysOnly {
		weekday := date.Weekday()
		if weekday == time.Saturday || weekday == time.Sunday {
			return false
		}
	}

	return true
}

// MatchesMeal reports whether a meal and its text pass the meal and keyword
// criteria.
func (f *Filter) MatchesMeal(meal menu.Meal, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	// Check meal subset
	if len(f.Meals) > 0 {
		matched := false
		for _, m := range f.Meals {
			if m == meal {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Check keywords (case-insensitive substring match)
	if len(f.Keywords) > 0 {
		matched := false
		textLower := strings.ToLower(text)
		for _, kw := range f.Keywords {
			if strings.Contains(textLower, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns a new menu holding only the matching days and meals. Days
// left without any meal are dropped. If the filter is empty, returns the
// original menu unchanged.
func (f *Filter) Apply(m menu.FinalMenu) menu.FinalMenu {
	if f.IsEmpty() {
		return m
	}

	filtered := make(menu.FinalMenu)
	for key, day := range m {
		if !f.MatchesDate(key) {
			continue
		}

		kept := make(menu.DayMeals)
		for meal, text := range day {
			if f.MatchesMeal(meal, text) {
				kept[meal] = text
			}
		}
		if kept.HasContent() {
			filtered[key] = kept
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "From: Jul 28, 2025 | To: Aug 1, 2025 | Meals: LUNCH | Weekdays only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	if len(f.Meals) > 0 {
		names := make([]string, len(f.Meals))
		for i, m := range f.Meals {
			names[i] = string(m)
		}
		parts = append(parts, fmt.Sprintf("Meals: %s", strings.Join(names, ", ")))
	}

	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}

	if f.WeekdaysOnly {
		parts = append(parts, "Weekdays only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		WeekdaysOnly: f.WeekdaysOnly,
	}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}

	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	clone.Meals = make([]menu.Meal, len(f.Meals))
	copy(clone.Meals, f.Meals)

	clone.Keywords = make([]string, len(f.Keywords))
	copy(clone.Keywords, f.Keywords)

	return clone
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
