package tui

import (
	"testing"
	"time"

	"github.com/aldenmarch/voicecal/core/schedule"
)

func TestParseQuickAddFullLine(t *testing.T) {
	defaultDate := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	event, err := parseQuickAdd("Dentist appointment 2025-01-14 14:00 45 work", defaultDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := schedule.Event{
		Title:    "Dentist appointment",
		Date:     "2025-01-14",
		Time:     "14:00",
		Duration: 45,
		Type:     schedule.EventTypeWork,
	}
	if event != want {
		t.Errorf("unexpected event %+v, want %+v", event, want)
	}
}

func TestParseQuickAddFillsDefaults(t *testing.T) {
	defaultDate := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	event, err := parseQuickAdd("Coffee 09:30", defaultDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Date != "2025-01-11" {
		t.Errorf("expected the selected date as default, got %q", event.Date)
	}
	if event.Duration != 60 {
		t.Errorf("expected 60 minute default, got %d", event.Duration)
	}
	if event.Type != schedule.EventTypePersonal {
		t.Errorf("expected personal default, got %q", event.Type)
	}
}

func TestParseQuickAddRejectsMalformedLines(t *testing.T) {
	defaultDate := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	for _, line := range []string{
		"",
		"2025-01-14 14:00",
		"Dentist tomorrow",
		"Dentist 14:00 nonsense",
	} {
		if _, err := parseQuickAdd(line, defaultDate); err == nil {
			t.Errorf("expected error for %q", line)
		}
	}
}
