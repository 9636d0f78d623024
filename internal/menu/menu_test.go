package menu

import (
	"reflect"
	"testing"
)

func TestParseMeal(t *testing.T) {
	tests := []struct {
		in     string
		want   Meal
		wantOK bool
	}{
		{"BREAKFAST", Breakfast, true},
		{"breakfast:", Breakfast, true},
		{" Lunch ", Lunch, true},
		{"pm snack", PMSnack, true},
		{"PM\tSNACK", PMSnack, true},
		{"pmsnack", PMSnack, true},
		{"snack", "", false},
		{"dinner", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMeal(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseMeal(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDayMeals_HasContent(t *testing.T) {
	tests := []struct {
		name string
		day  DayMeals
		want bool
	}{
		{"nil", nil, false},
		{"all blank", DayMeals{Breakfast: " ", Lunch: "\n", PMSnack: ""}, false},
		{"one meal", DayMeals{PMSnack: "Pretzels"}, true},
		{"unknown meal ignored", DayMeals{Meal("DINNER"): "Stew"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.day.HasContent(); got != tt.want {
				t.Errorf("HasContent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFinalMenu_Dates(t *testing.T) {
	m := FinalMenu{
		"2025-07-30": {},
		"Holiday":    {},
		"2025-07-28": {},
		"2025-08-01": {},
		"Fri (99)":   {},
	}

	want := []string{"2025-07-28", "2025-07-30", "2025-08-01", "Fri (99)", "Holiday"}
	if got := m.Dates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dates() = %v, want %v", got, want)
	}
}

func TestFinalMenu_Clone(t *testing.T) {
	m := FinalMenu{"2025-07-28": {Lunch: "Pizza"}}
	c := m.Clone()
	c["2025-07-28"][Lunch] = "Tacos"

	if m["2025-07-28"][Lunch] != "Pizza" {
		t.Error("Clone() shares storage with the original")
	}
}
