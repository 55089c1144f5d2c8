package schedule

import (
	"sort"
	"strings"
	"time"
)

// Seed data for a fresh session. Nothing outlives the process, so the sample
// set doubles as demo content and test fixture.

func seedEvents() []Event {
	return []Event{
		{
			ID:       "1",
			Title:    "Team Meeting",
			Date:     "2025-01-11",
			Time:     "10:00",
			Duration: 60,
			Type:     EventTypeWork,
		},
		{
			ID:       "2",
			Title:    "Lunch with Alex",
			Date:     "2025-01-11",
			Time:     "12:30",
			Duration: 90,
			Type:     EventTypePersonal,
		},
		{
			ID:       "3",
			Title:    "Project Review",
			Date:     "2025-01-12",
			Time:     "14:00",
			Duration: 45,
			Type:     EventTypeWork,
		},
	}
}

func seedFriends() []Friend {
	return []Friend{
		{ID: "1", Name: "Alex Johnson", Status: PresenceOnline},
		{ID: "2", Name: "Jamie Smith", Status: PresenceOffline},
		{ID: "3", Name: "Taylor Brown", Status: PresenceOnline},
		{ID: "4", Name: "Casey Wilson", Status: PresenceOffline},
	}
}

func seedMessages(now func() time.Time) []Message {
	return []Message{
		{
			ID:         "1",
			SenderID:   LocalUserID,
			ReceiverID: "1",
			Content:    "Hey Alex, are you free for lunch tomorrow?",
			Timestamp:  now().Format(time.RFC3339),
			IsRead:     true,
		},
	}
}

func sortEventsByTime(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
