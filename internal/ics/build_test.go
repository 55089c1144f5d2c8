package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/aldenmarch/voicecal/core/schedule"
	ical "github.com/arran4/golang-ical"
)

func TestBuildSerializesEvents(t *testing.T) {
	now := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)
	events := []schedule.Event{
		{ID: "1", Title: "Team Meeting", Date: "2025-01-11", Time: "10:00", Duration: 60, Type: schedule.EventTypeWork},
		{ID: "2", Title: "Lunch with Alex", Date: "2025-01-11", Time: "12:30", Duration: 90, Type: schedule.EventTypePersonal, Description: "At the bistro"},
	}

	serialized, err := Build(events, now)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(serialized))
	if err != nil {
		t.Fatalf("built calendar does not parse back: %v", err)
	}
	if got := len(cal.Events()); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}

	if !strings.Contains(serialized, "SUMMARY:Team Meeting") {
		t.Errorf("expected event summary in output")
	}
	if !strings.Contains(serialized, "DESCRIPTION:At the bistro") {
		t.Errorf("expected event description in output")
	}
	if !strings.Contains(serialized, "1@voicecal") {
		t.Errorf("expected stable uid in output")
	}
}

func TestBuildSkipsUnparsableEvents(t *testing.T) {
	now := time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC)
	events := []schedule.Event{
		{ID: "1", Title: "Broken", Date: "not-a-date", Time: "10:00", Duration: 60},
		{ID: "2", Title: "Fine", Date: "2025-01-11", Time: "10:00", Duration: 60},
	}

	serialized, err := Build(events, now)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(serialized))
	if err != nil {
		t.Fatalf("built calendar does not parse back: %v", err)
	}
	if got := len(cal.Events()); got != 1 {
		t.Fatalf("expected the broken event to be skipped, got %d events", got)
	}
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	if _, err := Build(nil, time.Now()); err == nil {
		t.Fatalf("expected an error for an empty event list")
	}
}
