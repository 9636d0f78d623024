package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/lunch-line/internal/menu"
)

// dateFormats are tried in order by ParseDate
var dateFormats = []string{
	menu.ISODate,
	"January 2, 2006",
	"Jan 2, 2006",
	"1/2/2006",
	"01/02/2006",
}

// ParseDate parses a command-line date such as "2025-07-28" or
// "Jul 28, 2025". An empty string yields nil.
func ParseDate(input string) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, input); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("invalid date %q. Use '2025-07-28' or 'Jul 28, 2025'", input)
}

// ParseMeals parses a comma-separated meal list such as "lunch, pm snack".
// Duplicates are removed and the result follows the order of menu.Meals.
func ParseMeals(input string) ([]menu.Meal, error) {
	seen := make(map[menu.Meal]bool)

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		meal, ok := menu.ParseMeal(part)
		if !ok {
			return nil, fmt.Errorf("unknown meal %q. Use breakfast, lunch or pm snack", part)
		}
		seen[meal] = true
	}

	meals := make([]menu.Meal, 0, len(seen))
	for _, m := range menu.Meals {
		if seen[m] {
			meals = append(meals, m)
		}
	}
	return meals, nil
}

// ParseKeywords splits a comma-separated keyword list, dropping blanks
func ParseKeywords(input string) []string {
	keywords := []string{}
	for _, part := range strings.Split(input, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
