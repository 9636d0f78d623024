package menu

import (
	"sort"
	"time"
)

// Snapshot records the menu days that have already been published
type Snapshot struct {
	Days      FinalMenu `json:"days"`       // keyed by ISO date
	UpdatedAt string    `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Days: make(FinalMenu),
	}
}

// CreateSnapshot merges current into previous and returns the result. Days in
// current replace the same days in previous; older days are retained.
func CreateSnapshot(previous *Snapshot, current FinalMenu, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	if previous != nil {
		for date, meals := range previous.Days {
			snap.Days[date] = meals.Clone()
		}
	}
	for date, meals := range current {
		snap.Days[date] = meals.Clone()
	}

	return snap
}

// MealChange describes a meal whose text differs from the published version
type MealChange struct {
	Date       string    `json:"date" yaml:"date"`
	Meal       Meal      `json:"meal" yaml:"meal"`
	OldValue   string    `json:"old_value" yaml:"old_value"`
	NewValue   string    `json:"new_value" yaml:"new_value"`
	DetectedAt time.Time `json:"detected_at" yaml:"detected_at"`
}

// DiffResult contains the results of comparing a menu against a snapshot
type DiffResult struct {
	NewDays     []string
	ChangedDays []string
	Changes     []*MealChange
}

// Pending returns the new and changed days of current, i.e. what still needs
// publishing.
func (d *DiffResult) Pending(current FinalMenu) FinalMenu {
	out := make(FinalMenu, len(d.NewDays)+len(d.ChangedDays))
	for _, date := range d.NewDays {
		out[date] = current[date]
	}
	for _, date := range d.ChangedDays {
		out[date] = current[date]
	}
	return out
}

// Empty reports whether nothing is new or changed.
func (d *DiffResult) Empty() bool {
	return len(d.NewDays) == 0 && len(d.ChangedDays) == 0
}

// Diff compares the current menu against a previous snapshot
func Diff(previous *Snapshot, current FinalMenu) *DiffResult {
	result := &DiffResult{
		NewDays:     make([]string, 0),
		ChangedDays: make([]string, 0),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	now := time.Now().UTC()
	for date, meals := range current {
		old, exists := previous.Days[date]
		if !exists {
			result.NewDays = append(result.NewDays, date)
			continue
		}
		if old.Equal(meals) {
			continue
		}

		result.ChangedDays = append(result.ChangedDays, date)
		for _, meal := range Meals {
			if old[meal] != meals[meal] {
				result.Changes = append(result.Changes, &MealChange{
					Date:       date,
					Meal:       meal,
					OldValue:   old[meal],
					NewValue:   meals[meal],
					DetectedAt: now,
				})
			}
		}
	}

	sort.Strings(result.NewDays)
	sort.Strings(result.ChangedDays)
	sort.SliceStable(result.Changes, func(i, j int) bool {
		return result.Changes[i].Date < result.Changes[j].Date
	})

	return result
}
