// Package availability computes open time windows against a day's schedule.
package availability

import (
	"fmt"

	"github.com/aldenmarch/voicecal/core/schedule"
)

const (
	// Work window bounds, in minutes from midnight (09:00-17:00).
	workWindowStart = 9 * 60
	workWindowEnd   = 17 * 60

	// Candidate slot starts are enumerated on a half-hour grid.
	slotStep = 30

	// DefaultDuration is the slot length used when the caller does not
	// request one, in minutes.
	DefaultDuration = 60

	maxSlots = 5
)

// FindSlots returns up to five conflict-free "HH:MM - HH:MM" windows of the
// given duration on the given ISO date, in chronological order. Candidates
// whose end would spill past the work window are discarded. The result is a
// pure function of its inputs.
func FindSlots(events []schedule.Event, date string, duration int) []string {
	if duration <= 0 {
		duration = DefaultDuration
	}

	busy := busyIntervals(events, date)

	slots := []string{}
	for start := workWindowStart; start < workWindowEnd; start += slotStep {
		end := start + duration
		if end > workWindowEnd {
			break
		}

		if conflictsWithAny(start, end, busy) {
			continue
		}

		slots = append(slots, fmt.Sprintf("%s - %s", formatMinutes(start), formatMinutes(end)))
		if len(slots) == maxSlots {
			break
		}
	}

	return slots
}

type interval struct {
	start int
	end   int
}

func busyIntervals(events []schedule.Event, date string) []interval {
	busy := []interval{}
	for _, event := range events {
		if event.Date != date {
			continue
		}

		start, ok := parseMinutes(event.Time)
		if !ok {
			continue
		}

		duration := event.Duration
		if duration <= 0 {
			duration = DefaultDuration
		}

		busy = append(busy, interval{start: start, end: start + duration})
	}
	return busy
}

// conflictsWithAny applies the three-way half-open overlap test: candidate
// start inside an event, candidate end inside an event, or candidate fully
// containing an event.
func conflictsWithAny(start, end int, busy []interval) bool {
	for _, b := range busy {
		startsInside := start >= b.start && start < b.end
		endsInside := end > b.start && end <= b.end
		contains := start <= b.start && end >= b.end
		if startsInside || endsInside || contains {
			return true
		}
	}
	return false
}

func parseMinutes(hhmm string) (int, bool) {
	var hours, minutes int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hours, &minutes); err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
