package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/lunch-line/internal/menu"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate    SortOrder = "date"
	SortByReverse SortOrder = "reverse"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByReverse:
		return SortByReverse, nil
	default:
		return SortByDate, fmt.Errorf("invalid sort order: %s (must be 'date' or 'reverse')", s)
	}
}

// sortDays returns the menu keys in the requested order. Dated days always
// come before labels that never resolved to a date.
func sortDays(m menu.FinalMenu, order SortOrder) []string {
	keys := m.Dates()
	if order != SortByReverse {
		return keys
	}

	dated := 0
	for _, k := range keys {
		if _, ok := menu.ParseISODate(k); ok {
			dated++
		}
	}
	for i, j := 0, dated-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}
