package main

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
	"github.com/pfrederiksen/lunch-line/internal/menu"
)

func main() {
	// A sample week with a closed Monday
	week := menu.FinalMenu{
		"2025-07-29": {
			menu.Breakfast: "multigrain Cereal, Apple Slices, Milk",
			menu.Lunch:     "DB cheese pizza, Cucumbers, Peaches, Milk",
			menu.PMSnack:   "Cheese Its, Milk",
		},
		"2025-07-30": {
			menu.Breakfast: "English Muffin W/ Butter And Jelly, Oranges, Milk",
			menu.Lunch:     "beef taco, sweet peppers, pineapple, Milk",
			menu.PMSnack:   "Graham Crackers, Milk",
		},
	}

	icsContent := calendar.GenerateICS(calendar.Events(week), "School Meals (test)")

	// Write to file (owner read/write only for security)
	filename := "test-lunch-line.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
