package calendar

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/lunch-line/internal/logger"
	"github.com/pfrederiksen/lunch-line/internal/menu"
)

const (
	ProdID     = "-//Lunch Line//lunch-line//EN"
	UIDDomain  = "lunch-line"
	summaryLen = 50
	// RFC 5545 limit, excluding the CRLF
	maxLineOctets = 75
)

// Event is a single all-day meal entry.
type Event struct {
	UID         string    `json:"uid" yaml:"uid"`
	Date        time.Time `json:"date" yaml:"date"`
	Meal        menu.Meal `json:"meal" yaml:"meal"`
	// Text is the meal's menu text
	Text        string `json:"text" yaml:"text"`
	Emoji       string `json:"emoji" yaml:"emoji"`
	Summary     string `json:"summary" yaml:"summary"`
	Description string `json:"description" yaml:"description"`
	// ColorID is the Google Calendar event colour
	ColorID string `json:"color_id" yaml:"color_id"`
	// Color is a CSS colour name for the RFC 7986 COLOR property
	Color string `json:"color" yaml:"color"`
}

// Day returns the event date as an ISO key.
func (e Event) Day() string {
	return e.Date.Format(menu.ISODate)
}

type mealStyle struct {
	emoji   string
	title   string
	heading string
	colorID string
	color   string
}

var mealStyles = map[menu.Meal]mealStyle{
	menu.Breakfast: {emoji: "🍳", title: "School Breakfast", heading: "Breakfast Menu", colorID: "2", color: "green"},
	menu.Lunch:     {emoji: "🍽️", title: "School Lunch", heading: "Lunch Menu", colorID: "3", color: "purple"},
	// Flamingo in Google Calendar
	menu.PMSnack: {emoji: "🥨", title: "School Snack", heading: "PM Snack", colorID: "4", color: "lightcoral"},
}

// Events builds one event per date and non-empty meal, in date then meal
// order. Keys that are not ISO dates are skipped.
func Events(m menu.FinalMenu) []Event {
	events := make([]Event, 0, len(m)*len(menu.Meals))

	for _, key := range m.Dates() {
		date, ok := menu.ParseISODate(key)
		if !ok {
			logger.Warn("Skipping menu day without a date", logger.Fields{"label": key})
			continue
		}

		day := m[key]
		for _, meal := range menu.Meals {
			text := strings.TrimSpace(day[meal])
			if text == "" {
				continue
			}
			events = append(events, NewEvent(date, meal, text))
		}
	}

	return events
}

// NewEvent builds the event for one meal on one day.
func NewEvent(date time.Time, meal menu.Meal, text string) Event {
	style, ok := mealStyles[meal]
	if !ok {
		style = mealStyle{emoji: "🍴", title: "School " + string(meal), heading: string(meal)}
	}

	return Event{
		UID:         EventUID(date, meal),
		Date:        date,
		Meal:        meal,
		Text:        text,
		Emoji:       style.emoji,
		Summary:     fmt.Sprintf("%s %s: %s...", style.emoji, style.title, truncateRunes(text, summaryLen)),
		Description: fmt.Sprintf("%s:\n%s", style.heading, text),
		ColorID:     style.colorID,
		Color:       style.color,
	}
}

// EventUID is stable for a date and meal so re-imports replace earlier copies.
func EventUID(date time.Time, meal menu.Meal) string {
	sum := sha1.Sum([]byte(date.Format(menu.ISODate) + "|" + string(meal)))
	return fmt.Sprintf("%s@%s", hex.EncodeToString(sum[:8]), UIDDomain)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// GenerateICS generates an iCalendar (.ics) document holding all events.
// An empty name omits X-WR-CALNAME; no events yields an empty string.
func GenerateICS(events []Event, name string) string {
	if len(events) == 0 {
		return ""
	}

	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+ProdID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(name))
	}

	stamp := formatICSTime(time.Now())

	for _, evt := range events {
		writeLine(&ics, "BEGIN:VEVENT")
		writeLine(&ics, "UID:"+evt.UID)
		writeLine(&ics, "DTSTAMP:"+stamp)

		// All-day: DTEND is exclusive
		writeLine(&ics, "DTSTART;VALUE=DATE:"+formatICSDate(evt.Date))
		writeLine(&ics, "DTEND;VALUE=DATE:"+formatICSDate(evt.Date.AddDate(0, 0, 1)))

		writeLine(&ics, "SUMMARY:"+escapeICS(evt.Summary))
		writeLine(&ics, "DESCRIPTION:"+escapeICS(evt.Description))
		writeLine(&ics, "CATEGORIES:"+escapeICS(string(evt.Meal)))
		if evt.Color != "" {
			writeLine(&ics, "COLOR:"+evt.Color)
		}
		writeLine(&ics, "STATUS:CONFIRMED")
		writeLine(&ics, "SEQUENCE:0")
		// Meals do not block the day
		writeLine(&ics, "TRANSP:TRANSPARENT")
		writeLine(&ics, "END:VEVENT")
	}

	writeLine(&ics, "END:VCALENDAR")

	return ics.String()
}

// writeLine writes a content line folded at 75 octets, never splitting a
// UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats the calendar date of t as an iCalendar DATE value
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
