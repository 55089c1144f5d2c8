package resolver

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aldenmarch/voicecal/core/schedule"
)

// buildSystemPrompt summarizes the current scheduling context for the model:
// today's date and time, today's events in chronological order, and the
// known friend names.
func buildSystemPrompt(now time.Time, events []schedule.Event, friends []schedule.Friend) string {
	currentDate := now.Format("2006-01-02")
	currentTime := now.Format("15:04")

	todayEvents := make([]schedule.Event, 0, len(events))
	for _, event := range events {
		if event.Date == currentDate {
			todayEvents = append(todayEvents, event)
		}
	}
	sortByTime(todayEvents)

	var scheduleLines strings.Builder
	if len(todayEvents) == 0 {
		scheduleLines.WriteString("- No events scheduled")
	} else {
		for i, event := range todayEvents {
			if i > 0 {
				scheduleLines.WriteString("\n")
			}
			fmt.Fprintf(&scheduleLines, "- %s at %s (%dmin)", event.Title, event.Time, event.Duration)
		}
	}

	friendNames := make([]string, 0, len(friends))
	for _, friend := range friends {
		friendNames = append(friendNames, friend.Name)
	}

	return fmt.Sprintf(`You are an AI assistant for a scheduling app. Today is %s and current time is %s.

Current schedule for today:
%s

Available friends: %s

Based on the user's command, determine the appropriate action and provide a helpful response.

For create_event actions:
- Convert relative dates like "tomorrow", "next Monday" to actual ISO dates
- Use 24-hour time format (HH:MM)
- Default duration is 60 minutes unless specified
- Infer event type (work/personal) from context

For query_schedule actions:
- Analyze the current events and provide availability information

For send_message actions:
- Only use friend names that exist in the available friends list
- Create appropriate messages based on the context

For find_availability actions:
- Look at existing events and suggest free time slots
- Consider typical work hours (9-17) and personal time

Always provide a natural, conversational response that confirms the action taken.`,
		currentDate, currentTime, scheduleLines.String(), strings.Join(friendNames, ", "))
}

func sortByTime(events []schedule.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
}
