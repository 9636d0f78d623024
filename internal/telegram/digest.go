package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
)

// FormatDigest formats meal events as one or more digest messages, one
// section per day. Sections are never split, so a message only exceeds
// MaxMessageLength when a single day does.
func FormatDigest(events []calendar.Event) []string {
	if len(events) == 0 {
		return nil
	}

	header := fmt.Sprintf("📬 <b>School Meals</b>\n🗓 %d new meal%s\n\n", len(events), pluralize(len(events)))

	var messages []string
	var msg strings.Builder
	msg.WriteString(header)
	sections := 0

	for _, section := range daySections(events) {
		if sections > 0 && utf8.RuneCountInString(msg.String())+utf8.RuneCountInString(section) > MaxMessageLength {
			messages = append(messages, strings.TrimRight(msg.String(), "\n"))
			msg.Reset()
			sections = 0
		}
		msg.WriteString(section)
		sections++
	}
	messages = append(messages, strings.TrimRight(msg.String(), "\n"))

	return messages
}

// daySections renders events grouped by day, keeping their order
func daySections(events []calendar.Event) []string {
	var sections []string
	var section strings.Builder
	day := ""

	for _, evt := range events {
		if evt.Day() != day {
			if section.Len() > 0 {
				sections = append(sections, section.String()+"\n")
				section.Reset()
			}
			day = evt.Day()
			section.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", evt.Date.Format("Monday, Jan 2")))
		}

		section.WriteString(fmt.Sprintf("%s <i>%s</i>: %s\n", evt.Emoji, html.EscapeString(string(evt.Meal)), html.EscapeString(evt.Text)))
	}
	if section.Len() > 0 {
		sections = append(sections, section.String()+"\n")
	}

	return sections
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
