package publisher

import (
	"github.com/pfrederiksen/lunch-line/internal/calendar"
)

// Publisher defines the interface for publishing meal events
type Publisher interface {
	// Publish delivers the given events
	Publish(events []calendar.Event) error
}
