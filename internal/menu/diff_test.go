package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	previous := CreateSnapshot(nil, FinalMenu{
		"2025-07-28": {Breakfast: "Cereal", Lunch: "Pizza"},
		"2025-07-29": {Lunch: "Pasta"},
	}, "2025-07-27T00:00:00Z")

	current := FinalMenu{
		"2025-07-28": {Breakfast: "Cereal", Lunch: "Pizza"},
		"2025-07-29": {Lunch: "Lasagna", PMSnack: "Pretzels"},
		"2025-07-31": {Lunch: "Tacos"},
		"2025-07-30": {Lunch: "Soup"},
	}

	diff := Diff(previous, current)

	assert.Equal(t, []string{"2025-07-30", "2025-07-31"}, diff.NewDays)
	assert.Equal(t, []string{"2025-07-29"}, diff.ChangedDays)
	assert.False(t, diff.Empty())

	require.Len(t, diff.Changes, 2)
	assert.Equal(t, Lunch, diff.Changes[0].Meal)
	assert.Equal(t, "Pasta", diff.Changes[0].OldValue)
	assert.Equal(t, "Lasagna", diff.Changes[0].NewValue)
	assert.Equal(t, PMSnack, diff.Changes[1].Meal)
	assert.Equal(t, "", diff.Changes[1].OldValue)

	pending := diff.Pending(current)
	assert.Equal(t, []string{"2025-07-29", "2025-07-30", "2025-07-31"}, pending.Dates())
}

func TestDiff_NilPrevious(t *testing.T) {
	current := FinalMenu{"2025-07-28": {Lunch: "Pizza"}}

	diff := Diff(nil, current)

	assert.Equal(t, []string{"2025-07-28"}, diff.NewDays)
	assert.Empty(t, diff.ChangedDays)
}

func TestDiff_NothingNew(t *testing.T) {
	current := FinalMenu{"2025-07-28": {Lunch: "Pizza"}}
	previous := CreateSnapshot(nil, current, "")

	diff := Diff(previous, current)

	assert.True(t, diff.Empty())
	assert.Empty(t, diff.Pending(current))
}

func TestCreateSnapshot_MergesAndCopies(t *testing.T) {
	old := CreateSnapshot(nil, FinalMenu{
		"2025-07-21": {Lunch: "Old week"},
		"2025-07-28": {Lunch: "Stale"},
	}, "t0")

	current := FinalMenu{"2025-07-28": {Lunch: "Fresh"}}
	snap := CreateSnapshot(old, current, "t1")

	assert.Equal(t, "t1", snap.UpdatedAt)
	assert.Equal(t, "Old week", snap.Days["2025-07-21"][Lunch])
	assert.Equal(t, "Fresh", snap.Days["2025-07-28"][Lunch])

	current["2025-07-28"][Lunch] = "Mutated"
	assert.Equal(t, "Fresh", snap.Days["2025-07-28"][Lunch])
}
