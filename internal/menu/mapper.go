package menu

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/pfrederiksen/lunch-line/internal/logger"
)

var dayNumberPattern = regexp.MustCompile(`\((\d{1,2})\)`)

// MapToDates re-keys meals from day labels such as "Tue (28)" to ISO dates
// within r, matching on day-of-month.
func MapToDates(meals MealsByDay, r DateRange) FinalMenu {
	return MapToDatesLayout(meals, r, ISODate)
}

// MapToDatesLayout is MapToDates with a custom time layout for the keys.
//
// Labels without a parenthesised day-of-month, or whose day is outside the
// range, keep their original label. When the range is longer than a month a
// day-of-month occurs twice and the later date wins; labels carry no month, so
// such ranges cannot be disambiguated here.
func MapToDatesLayout(meals MealsByDay, r DateRange, layout string) FinalMenu {
	dayToDate := make(map[int]time.Time, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		dayToDate[d.Day()] = d
	}

	labels := make([]string, 0, len(meals))
	for label := range meals {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	remapped := make(FinalMenu, len(meals))
	for _, label := range labels {
		key := label
		if m := dayNumberPattern.FindStringSubmatch(label); m != nil {
			day, _ := strconv.Atoi(m[1])
			if dt, ok := dayToDate[day]; ok {
				key = dt.Format(layout)
			} else {
				logger.Warn("Day label outside menu week", logger.Fields{
					"label": label,
					"range": r.String(),
				})
			}
		} else {
			logger.Warn("Day label has no day-of-month", logger.Fields{"label": label})
		}

		if _, taken := remapped[key]; taken {
			logger.Warn("Two day labels map to the same date", logger.Fields{
				"label": label,
				"key":   key,
			})
			continue
		}
		remapped[key] = meals[label]
	}

	return remapped
}
