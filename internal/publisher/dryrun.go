package publisher

import (
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
)

// DryRunPublisher prints what would be published without writing anything
type DryRunPublisher struct {
	out io.Writer
}

// NewDryRunPublisher creates a dry-run publisher writing to out, or to
// stdout when out is nil.
func NewDryRunPublisher(out io.Writer) *DryRunPublisher {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunPublisher{out: out}
}

// Publish prints the events that would be published
func (p *DryRunPublisher) Publish(events []calendar.Event) error {
	for i, evt := range events {
		if _, err := fmt.Fprintf(p.out, "--- Event %d/%d (%s) ---\n", i+1, len(events), evt.Day()); err != nil {
			return fmt.Errorf("writing event %s: %w", evt.UID, err)
		}
		fmt.Fprintln(p.out, evt.Summary)
		fmt.Fprintf(p.out, "\n%s\n\n", evt.Description)
	}
	return nil
}
