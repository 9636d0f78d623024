// Package menu turns the table grid of a weekly school menu into dated meals.
//
// The pipeline has three steps. ExtractMeals reads a RawTable whose first row
// holds day labels such as "Tue (28)" and whose body cells start with a section
// keyword (BREAKFAST, LUNCH or PM SNACK), producing MealsByDay. ResolveDateRange
// finds the week's "28 July 2025 - 01 August 2025" header in the page text.
// MapToDates then replaces each day label with the ISO date whose day-of-month
// matches the number in parentheses, producing a FinalMenu.
//
// Snapshots of published menus and Diff let callers publish only the days that
// are new or changed since the previous run.
package menu
