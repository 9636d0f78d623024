package publisher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
	"github.com/pfrederiksen/lunch-line/internal/logger"
)

// ICSFilePublisher writes events to an iCalendar file
type ICSFilePublisher struct {
	path string
	name string
}

// NewICSFilePublisher creates a publisher that writes to path. name becomes
// the calendar's display name.
func NewICSFilePublisher(path, name string) *ICSFilePublisher {
	return &ICSFilePublisher{path: path, name: name}
}

// Path returns the output file path
func (p *ICSFilePublisher) Path() string {
	return p.path
}

// Publish replaces the file with a calendar holding events
func (p *ICSFilePublisher) Publish(events []calendar.Event) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to publish")
	}

	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	ics := calendar.GenerateICS(events, p.name)

	if err := os.WriteFile(p.path, []byte(ics), 0600); err != nil {
		return fmt.Errorf("writing calendar file: %w", err)
	}

	logger.AddCounter("publish.events", int64(len(events)))
	logger.Info("Calendar written", logger.Fields{
		"path":   p.path,
		"events": len(events),
	})

	return nil
}
