package actions

import (
	"errors"
	"slices"
	"testing"
)

func TestDecodeCreateEvent(t *testing.T) {
	raw := []byte(`{
		"action": "create_event",
		"event": {"title": "Dentist", "date": "2025-01-12", "time": "14:00", "type": "personal"},
		"response": "Added your dentist appointment."
	}`)

	action, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	create, ok := action.(CreateEvent)
	if !ok {
		t.Fatalf("expected CreateEvent, got %T", action)
	}
	if create.Event.Title != "Dentist" || create.Event.Date != "2025-01-12" || create.Event.Time != "14:00" {
		t.Errorf("unexpected event payload: %+v", create.Event)
	}
	if create.Event.Duration != 60 {
		t.Errorf("expected default duration 60, got %d", create.Event.Duration)
	}
	if create.Response() != "Added your dentist appointment." {
		t.Errorf("unexpected response text %q", create.Response())
	}
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	_, err := Decode([]byte(`{"action": "reschedule_everything", "response": "sure"}`))
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for unknown tag, got %v", err)
	}
}

func TestDecodeRejectsMissingResponse(t *testing.T) {
	_, err := Decode([]byte(`{"action": "respond"}`))
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for missing response, got %v", err)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"action": "respond"`))
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction for malformed JSON, got %v", err)
	}
}

func TestDecodeRejectsShapeViolations(t *testing.T) {
	cases := map[string]string{
		"create_event without event":     `{"action": "create_event", "response": "ok"}`,
		"create_event bad time":          `{"action": "create_event", "event": {"title": "X", "date": "2025-01-12", "time": "2pm"}, "response": "ok"}`,
		"create_event bad date":          `{"action": "create_event", "event": {"title": "X", "date": "Jan 12", "time": "14:00"}, "response": "ok"}`,
		"update_event without id":        `{"action": "update_event", "updates": {"title": "Y"}, "response": "ok"}`,
		"update_event bad patch time":    `{"action": "update_event", "eventId": "1", "updates": {"time": "25:00"}, "response": "ok"}`,
		"delete_event without id":        `{"action": "delete_event", "response": "ok"}`,
		"query_schedule bad timeframe":   `{"action": "query_schedule", "timeframe": "someday", "response": "ok"}`,
		"send_message without friend":    `{"action": "send_message", "message": "hi", "response": "ok"}`,
		"send_message without message":   `{"action": "send_message", "friendName": "Alex", "response": "ok"}`,
		"share_calendar bad timeframe":   `{"action": "share_calendar", "friendName": "Alex", "timeframe": "tomorrow", "response": "ok"}`,
		"find_availability bad date":     `{"action": "find_availability", "date": "soon", "response": "ok"}`,
		"find_availability bad interval": `{"action": "find_availability", "timeframe": "midnight", "response": "ok"}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(raw)); !errors.Is(err, ErrInvalidAction) {
				t.Errorf("expected ErrInvalidAction, got %v", err)
			}
		})
	}
}

func TestDecodeEveryTag(t *testing.T) {
	cases := map[Tag]string{
		TagCreateEvent:      `{"action": "create_event", "event": {"title": "X", "date": "2025-01-12", "time": "14:00"}, "response": "ok"}`,
		TagUpdateEvent:      `{"action": "update_event", "eventId": "1", "updates": {"time": "15:00"}, "response": "ok"}`,
		TagDeleteEvent:      `{"action": "delete_event", "eventId": "1", "response": "ok"}`,
		TagQuerySchedule:    `{"action": "query_schedule", "timeframe": "today", "response": "ok"}`,
		TagFindAvailability: `{"action": "find_availability", "date": "2025-01-12", "duration": 30, "response": "ok"}`,
		TagSendMessage:      `{"action": "send_message", "friendName": "Alex", "message": "hi", "response": "ok"}`,
		TagShareCalendar:    `{"action": "share_calendar", "friendName": "Alex", "timeframe": "this_week", "response": "ok"}`,
		TagRespond:          `{"action": "respond", "response": "ok"}`,
	}

	if len(cases) != len(Tags()) {
		t.Fatalf("test cases out of sync with tag set")
	}

	for tag, raw := range cases {
		action, err := Decode([]byte(raw))
		if err != nil {
			t.Errorf("tag %q: unexpected error %v", tag, err)
			continue
		}
		if action.Tag() != tag {
			t.Errorf("expected tag %q, got %q", tag, action.Tag())
		}
		if !slices.Contains(Tags(), action.Tag()) {
			t.Errorf("decoded tag %q not in known tag set", action.Tag())
		}
	}
}

func TestDecodeFindAvailabilityDefaultsDuration(t *testing.T) {
	action, err := Decode([]byte(`{"action": "find_availability", "availableSlots": ["09:00 - 10:00"], "response": "ok"}`))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	find := action.(FindAvailability)
	if find.Duration != 60 {
		t.Errorf("expected default duration 60, got %d", find.Duration)
	}
	if len(find.AvailableSlots) != 1 {
		t.Errorf("expected carried slots, got %v", find.AvailableSlots)
	}
}
