package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
	"github.com/pfrederiksen/lunch-line/internal/filter"
	"github.com/pfrederiksen/lunch-line/internal/menu"
	"github.com/pfrederiksen/lunch-line/internal/parser"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// DayOutput is one menu day in output order
type DayOutput struct {
	Date    string        `json:"date" yaml:"date"`
	Weekday string        `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	Meals   menu.DayMeals `json:"meals" yaml:"meals"`
}

// MenuOutput contains a parsed menu to be output
type MenuOutput struct {
	Source   string         `json:"source" yaml:"source"`
	Range    menu.DateRange `json:"range" yaml:"range"`
	Filter   string         `json:"filter,omitempty" yaml:"filter,omitempty"`
	DayCount int            `json:"day_count" yaml:"day_count"`
	Days     []DayOutput    `json:"days" yaml:"days"`
}

// NewMenuOutput applies f to the parsed menu and orders the days
func NewMenuOutput(result *parser.Result, f *filter.Filter, order SortOrder) *MenuOutput {
	m := result.Menu
	out := &MenuOutput{
		Source: result.Source,
		Range:  result.Range,
		Days:   []DayOutput{},
	}
	if f != nil && !f.IsEmpty() {
		m = f.Apply(m)
		out.Filter = f.String()
	}

	for _, key := range sortDays(m, order) {
		day := DayOutput{Date: key, Meals: m[key]}
		if t, ok := menu.ParseISODate(key); ok {
			day.Weekday = t.Weekday().String()
		}
		out.Days = append(out.Days, day)
	}
	out.DayCount = len(out.Days)

	return out
}

// PublishOutput describes the result of a publish run
type PublishOutput struct {
	PublishedAt time.Time          `json:"published_at" yaml:"published_at"`
	Source      string             `json:"source" yaml:"source"`
	Path        string             `json:"path,omitempty" yaml:"path,omitempty"`
	DryRun      bool               `json:"dry_run" yaml:"dry_run"`
	NewDays     []string           `json:"new_days" yaml:"new_days"`
	ChangedDays []string           `json:"changed_days" yaml:"changed_days"`
	Changes     []*menu.MealChange `json:"changes,omitempty" yaml:"changes,omitempty"`
	Notified    []string           `json:"notified,omitempty" yaml:"notified,omitempty"`
	Events      []calendar.Event   `json:"events" yaml:"events"`
}

// WriteMenu writes a menu in the specified format
func WriteMenu(w io.Writer, out *MenuOutput, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, out)
	case FormatYAML:
		return writeYAML(w, out)
	case FormatText:
		return writeMenuText(w, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WritePublish writes a publish result in the specified format
func WritePublish(w io.Writer, out *PublishOutput, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, out)
	case FormatYAML:
		return writeYAML(w, out)
	case FormatText:
		return writePublishText(w, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeYAML outputs results as YAML
func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// writeMenuText outputs a menu as human-readable text
func writeMenuText(w io.Writer, out *MenuOutput) error {
	if out.DayCount == 0 {
		fmt.Fprintln(w, "No meals found.")
		return nil
	}

	fmt.Fprintf(w, "Menu for %s (%s)\n", formatRange(out.Range), out.Source)
	if out.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", out.Filter)
	}

	for _, day := range out.Days {
		if day.Weekday != "" {
			fmt.Fprintf(w, "\n%s (%s)\n", day.Date, day.Weekday)
		} else {
			fmt.Fprintf(w, "\n%s\n", day.Date)
		}
		for _, meal := range menu.Meals {
			text := strings.TrimSpace(day.Meals[meal])
			if text == "" {
				continue
			}
			fmt.Fprintf(w, "  %-10s %s\n", string(meal)+":", text)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d days\n", out.DayCount)
	return nil
}

// writePublishText outputs a publish result as human-readable text
func writePublishText(w io.Writer, out *PublishOutput) error {
	if len(out.NewDays) == 0 && len(out.ChangedDays) == 0 {
		fmt.Fprintln(w, "Nothing new to publish.")
		return nil
	}

	for _, day := range out.NewDays {
		fmt.Fprintf(w, "NEW: %s\n", day)
	}
	for _, change := range out.Changes {
		fmt.Fprintf(w, "CHANGED: %s %s: %q -> %q\n", change.Date, change.Meal, change.OldValue, change.NewValue)
	}

	fmt.Fprintf(w, "\nPublished %d events (%d new days, %d changed) to %s\n",
		len(out.Events), len(out.NewDays), len(out.ChangedDays), out.Path)
	if len(out.Notified) > 0 {
		fmt.Fprintf(w, "Notified: %s\n", strings.Join(out.Notified, ", "))
	}
	return nil
}

func formatRange(r menu.DateRange) string {
	if r.Start.IsZero() {
		return "unknown dates"
	}
	return fmt.Sprintf("%s to %s", r.Start.Format("Mon Jan 2"), r.End.Format("Mon Jan 2, 2006"))
}
