package menu

import (
	"sort"
	"strings"
	"time"
)

// Meal is one of the three sections of a school menu day.
type Meal string

const (
	Breakfast Meal = "BREAKFAST"
	Lunch     Meal = "LUNCH"
	PMSnack   Meal = "PM SNACK"
)

// Meals lists every meal in serving order.
var Meals = []Meal{Breakfast, Lunch, PMSnack}

// ISODate is the layout of FinalMenu keys.
const ISODate = "2006-01-02"

// ParseMeal converts free text such as "pm  snack" or "Lunch:" into a Meal.
func ParseMeal(s string) (Meal, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ":")
	key := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if key == "PMSNACK" {
		key = string(PMSnack)
	}
	for _, m := range Meals {
		if key == string(m) {
			return m, true
		}
	}
	return "", false
}

// RawTable is a row-major cell grid. Row 0 holds the column headers. An empty
// string, or a cell missing from a short row, is a null cell.
type RawTable [][]string

// DayMeals maps each meal of a day to its menu text.
type DayMeals map[Meal]string

// HasContent reports whether at least one meal has non-whitespace text.
func (d DayMeals) HasContent() bool {
	for _, m := range Meals {
		if strings.TrimSpace(d[m]) != "" {
			return true
		}
	}
	return false
}

// Equal reports whether both days carry the same text for every meal.
func (d DayMeals) Equal(other DayMeals) bool {
	for _, m := range Meals {
		if d[m] != other[m] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no storage with d.
func (d DayMeals) Clone() DayMeals {
	out := make(DayMeals, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// MealsByDay maps a day label such as "Tue (28)" to that day's meals.
type MealsByDay map[string]DayMeals

// FinalMenu maps an ISO date (or, when it could not be resolved, the original
// day label) to that day's meals.
type FinalMenu map[string]DayMeals

// Dates returns the menu keys in ascending order. ISO dates sort
// chronologically; unresolved labels sort after them.
func (m FinalMenu) Dates() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		_, iDate := ParseISODate(keys[i])
		_, jDate := ParseISODate(keys[j])
		if iDate != jDate {
			return iDate
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Clone returns a deep copy of the menu.
func (m FinalMenu) Clone() FinalMenu {
	out := make(FinalMenu, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

// ParseISODate parses a FinalMenu key. The bool is false for keys that are
// unresolved day labels.
func ParseISODate(key string) (time.Time, bool) {
	t, err := time.Parse(ISODate, key)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
