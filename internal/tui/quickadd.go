package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aldenmarch/voicecal/core/schedule"
)

// parseQuickAdd turns a one-line event description into an event. The line
// is a title followed by scheduling tokens in any order: a date
// (2006-01-02), a time (15:04), a duration in minutes and a type, e.g.
// "Dentist 2025-01-14 14:00 45 personal". The title ends at the first
// date or time token. Date defaults to defaultDate, duration to 60
// minutes and type to personal.
func parseQuickAdd(line string, defaultDate time.Time) (schedule.Event, error) {
	fields := strings.Fields(line)
	event := schedule.Event{
		Duration: 60,
		Type:     schedule.EventTypePersonal,
	}

	split := len(fields)
	for i, field := range fields {
		if isDateToken(field) || isTimeToken(field) {
			split = i
			break
		}
	}

	title := strings.Join(fields[:split], " ")
	if title == "" {
		return schedule.Event{}, fmt.Errorf("missing event title")
	}
	event.Title = title

	for _, field := range fields[split:] {
		switch {
		case isDateToken(field):
			event.Date = field
		case isTimeToken(field):
			event.Time = field
		case field == string(schedule.EventTypeWork) || field == string(schedule.EventTypePersonal):
			event.Type = schedule.EventType(field)
		default:
			minutes, err := strconv.Atoi(strings.TrimSuffix(field, "m"))
			if err != nil || minutes <= 0 {
				return schedule.Event{}, fmt.Errorf("unrecognized token %q", field)
			}
			event.Duration = minutes
		}
	}

	if event.Time == "" {
		return schedule.Event{}, fmt.Errorf("missing event time")
	}
	if event.Date == "" {
		event.Date = defaultDate.Format("2006-01-02")
	}

	return event, nil
}

func isDateToken(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func isTimeToken(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
