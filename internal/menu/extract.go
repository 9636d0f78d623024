package menu

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pfrederiksen/lunch-line/internal/logger"
)

// sectionPattern matches the section keyword at the start of a body cell.
var sectionPattern = regexp.MustCompile(`(?i)^(BREAKFAST|LUNCH|PM\s*SNACK)\s*:?`)

// ExtractFromTables parses the first table of a page. A page without tables
// yields an empty, non-nil mapping.
func ExtractFromTables(tables []RawTable) MealsByDay {
	if len(tables) == 0 {
		logger.Error("Menu is empty", nil, fmt.Errorf("no tables on page"))
		return MealsByDay{}
	}
	return ExtractMeals(tables[0])
}

// ExtractMeals parses a menu table where the first row contains day headers
// and each body cell starts with its own section keyword. Days without any
// meal text are dropped. ExtractMeals never panics; malformed input yields an
// empty mapping.
func ExtractMeals(table RawTable) (result MealsByDay) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Extracting menu table failed", nil, fmt.Errorf("%v", r))
			result = MealsByDay{}
		}
	}()

	if len(table) == 0 {
		logger.Error("Menu is empty", nil, fmt.Errorf("table has no rows"))
		return MealsByDay{}
	}

	headers := table[0]
	parsed := make(MealsByDay)

	for _, row := range table[1:] {
		for day, cell := range zipRow(headers, row) {
			meal, content, ok := splitSection(cell)
			if !ok {
				continue
			}
			if parsed[day] == nil {
				parsed[day] = make(DayMeals)
			}
			parsed[day][meal] = content
		}
	}

	for day, meals := range parsed {
		if !meals.HasContent() {
			delete(parsed, day)
		}
	}

	logger.Debug("Extracted menu table", logger.Fields{
		"rows": len(table) - 1,
		"days": len(parsed),
	})

	return parsed
}

// zipRow pairs each header with the cell below it. Cells past the last header
// are dropped; when a header repeats, the right-most cell wins.
func zipRow(headers, row []string) map[string]string {
	n := len(headers)
	if len(row) < n {
		n = len(row)
	}
	cells := make(map[string]string, n)
	for i := 0; i < n; i++ {
		cells[headers[i]] = row[i]
	}
	return cells
}

// splitSection returns the canonical meal and the flattened text that follow a
// leading section keyword.
func splitSection(cell string) (Meal, string, bool) {
	if cell == "" {
		return "", "", false
	}
	loc := sectionPattern.FindStringSubmatchIndex(cell)
	if loc == nil {
		return "", "", false
	}
	meal, ok := ParseMeal(cell[loc[2]:loc[3]])
	if !ok {
		return "", "", false
	}
	content := strings.ReplaceAll(strings.TrimSpace(cell[loc[1]:]), "\n", " ")
	return meal, content, true
}
