// Package publisher delivers meal calendar events to their destinations.
//
// The ICS file publisher writes a single iCalendar document that calendar
// clients can import or subscribe to. The dry-run publisher prints each event
// so a run can be checked before anything is written. The Twitter and
// Telegram publishers announce newly published meals.
package publisher
