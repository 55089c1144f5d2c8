// Package ics serializes schedule events into an iCalendar document for
// sharing outside the app.
package ics

import (
	"errors"
	"fmt"
	"time"

	"github.com/aldenmarch/voicecal/core/schedule"
	ical "github.com/arran4/golang-ical"
)

const uidDomain = "voicecal"

// Build renders the given events as a VCALENDAR. Events whose date or
// time cannot be parsed are skipped rather than failing the whole export.
func Build(events []schedule.Event, now time.Time) (string, error) {
	if len(events) == 0 {
		return "", errors.New("no events to export")
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//voicecal//calendar export//EN")

	exported := 0
	for _, event := range events {
		start, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.Time, time.Local)
		if err != nil {
			continue
		}

		duration := event.Duration
		if duration <= 0 {
			duration = 60
		}

		ve := cal.AddEvent(fmt.Sprintf("%s@%s", event.ID, uidDomain))
		ve.SetCreatedTime(now)
		ve.SetDtStampTime(now)
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(time.Duration(duration) * time.Minute))
		ve.SetSummary(event.Title)
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		if event.Type != "" {
			ve.AddProperty(ical.ComponentPropertyCategories, string(event.Type))
		}
		exported++
	}

	if exported == 0 {
		return "", errors.New("no exportable events")
	}

	return cal.Serialize(), nil
}
