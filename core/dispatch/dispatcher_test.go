package dispatch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aldenmarch/voicecal/core/actions"
	"github.com/aldenmarch/voicecal/core/schedule"
	"github.com/aldenmarch/voicecal/internal/utils"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

type notice struct {
	level  Level
	title  string
	detail string
}

func (n *recordingNotifier) Notify(level Level, title, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{level: level, title: title, detail: detail})
}

func (n *recordingNotifier) last(t *testing.T) notice {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		t.Fatalf("expected at least one notification")
	}
	return n.notices[len(n.notices)-1]
}

func fixedClock() time.Time {
	return time.Date(2025, 1, 11, 9, 30, 0, 0, time.UTC)
}

func newDispatcher(t *testing.T) (*Dispatcher, *schedule.Store, *recordingNotifier) {
	t.Helper()

	store := schedule.NewStore(schedule.WithSeedData(), schedule.WithClock(fixedClock))
	notifier := &recordingNotifier{}
	return New(store, WithNotifier(notifier), WithClock(fixedClock)), store, notifier
}

func TestDispatchCreateEventInsertsExactlyOne(t *testing.T) {
	d, store, notifier := newDispatcher(t)
	before := store.Events()

	d.Dispatch(context.Background(), actions.CreateEvent{
		Event: actions.EventDraft{
			Title: "Meeting", Date: "2025-01-12", Time: "14:00", Duration: 60, Type: "work",
		},
		ResponseText: "Scheduled.",
	})

	after := store.Events()
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new event, got %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("expected existing event %d unchanged, got %+v != %+v", i, after[i], before[i])
		}
	}

	inserted := after[len(after)-1]
	if inserted.Date != "2025-01-12" || inserted.Time != "14:00" || inserted.Duration != 60 {
		t.Errorf("unexpected inserted event: %+v", inserted)
	}
	if got := notifier.last(t); got.level != LevelSuccess || got.title != "Event Created" {
		t.Errorf("unexpected notification %+v", got)
	}
}

func TestDispatchUpdateEventMissingIDLeavesCollectionUnchanged(t *testing.T) {
	d, store, notifier := newDispatcher(t)
	before := store.Events()

	d.Dispatch(context.Background(), actions.UpdateEvent{
		EventID:      "missing",
		Updates:      actions.EventPatch{Title: utils.Ptr("Ghost")},
		ResponseText: "Updated.",
	})

	after := store.Events()
	if len(after) != len(before) {
		t.Fatalf("expected unchanged length, got %d != %d", len(after), len(before))
	}
	for i := range after {
		if after[i] != before[i] {
			t.Errorf("expected event %d unchanged, got %+v != %+v", i, after[i], before[i])
		}
	}

	// Success is still reported: a patch over zero elements is a no-op.
	if got := notifier.last(t); got.title != "Event Updated" {
		t.Errorf("unexpected notification %+v", got)
	}
}

func TestDispatchDeleteEventTwiceIsIdempotent(t *testing.T) {
	d, store, _ := newDispatcher(t)

	d.Dispatch(context.Background(), actions.DeleteEvent{EventID: "1", ResponseText: "Deleted."})
	afterFirst := store.Events()

	d.Dispatch(context.Background(), actions.DeleteEvent{EventID: "1", ResponseText: "Deleted."})
	afterSecond := store.Events()

	if len(afterFirst) != len(afterSecond) {
		t.Fatalf("expected identical collections, got %d != %d", len(afterFirst), len(afterSecond))
	}
	for i := range afterFirst {
		if afterFirst[i] != afterSecond[i] {
			t.Errorf("expected event %d unchanged, got %+v != %+v", i, afterFirst[i], afterSecond[i])
		}
	}
}

func TestDispatchFindAvailabilityDefaultsToToday(t *testing.T) {
	d, _, notifier := newDispatcher(t)

	d.Dispatch(context.Background(), actions.FindAvailability{Duration: 60, ResponseText: "Here."})

	got := notifier.last(t)
	if got.level != LevelInfo || got.title != "Available Time Slots" {
		t.Fatalf("unexpected notification %+v", got)
	}
	// Seeded 2025-01-11 has events at 10:00 (60min) and 12:30 (90min),
	// leaving 09:00, 11:00, 11:30, 14:00 and 14:30 as the first five
	// conflict-free hour slots.
	if got.detail != "Found 5 available slots." {
		t.Errorf("unexpected slot count detail %q", got.detail)
	}
}

func TestDispatchSendMessageAppendsToMatchedFriend(t *testing.T) {
	d, store, notifier := newDispatcher(t)
	before := store.Messages()

	d.Dispatch(context.Background(), actions.SendMessage{
		FriendName:   "alex",
		Message:      "I'll be late",
		ResponseText: "Message sent.",
	})

	after := store.Messages()
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new message, got %d -> %d", len(before), len(after))
	}

	appended := after[len(after)-1]
	if appended.SenderID != schedule.LocalUserID {
		t.Errorf("expected sender %q, got %q", schedule.LocalUserID, appended.SenderID)
	}
	if appended.ReceiverID != "1" {
		t.Errorf("expected receiver to be Alex Johnson's id, got %q", appended.ReceiverID)
	}
	if appended.Content != "I'll be late" {
		t.Errorf("unexpected content %q", appended.Content)
	}

	if got := notifier.last(t); got.title != "Message Sent" {
		t.Errorf("unexpected notification %+v", got)
	}
}

func TestDispatchSendMessageUnknownFriendSurfacesNotice(t *testing.T) {
	d, store, notifier := newDispatcher(t)
	before := store.Messages()

	d.Dispatch(context.Background(), actions.SendMessage{
		FriendName:   "Zelda",
		Message:      "hello?",
		ResponseText: "Message sent.",
	})

	after := store.Messages()
	if len(after) != len(before) {
		t.Fatalf("expected no message appended, got %d -> %d", len(before), len(after))
	}
	if got := notifier.last(t); got.level != LevelWarn || got.title != "Friend Not Found" {
		t.Errorf("expected friend-not-found notice, got %+v", got)
	}
}

func TestDispatchShareCalendarAttachesInvite(t *testing.T) {
	d, store, notifier := newDispatcher(t)
	before := store.Messages()

	// The fixed clock is Saturday 2025-01-11, so next week only holds the
	// seeded Project Review on Sunday the 12th.
	d.Dispatch(context.Background(), actions.ShareCalendar{
		FriendName:   "alex",
		Timeframe:    "next_week",
		ResponseText: "Shared.",
	})

	after := store.Messages()
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new message, got %d -> %d", len(before), len(after))
	}

	appended := after[len(after)-1]
	if appended.ReceiverID != "1" {
		t.Errorf("expected receiver to be Alex Johnson's id, got %q", appended.ReceiverID)
	}
	if !strings.Contains(appended.Content, "BEGIN:VCALENDAR") {
		t.Errorf("expected an iCalendar attachment, got %q", appended.Content)
	}
	if !strings.Contains(appended.Content, "Project Review") {
		t.Errorf("expected the next-week event in the invite, got %q", appended.Content)
	}
	if strings.Contains(appended.Content, "Team Meeting") {
		t.Errorf("expected this-week events excluded, got %q", appended.Content)
	}

	if got := notifier.last(t); got.level != LevelSuccess || got.title != "Calendar Shared" {
		t.Errorf("unexpected notification %+v", got)
	}
}

func TestDispatchShareCalendarWithEmptyScheduleNotifiesOnly(t *testing.T) {
	store := schedule.NewStore(schedule.WithClock(fixedClock))
	store.AddFriend(schedule.Friend{Name: "Alex Johnson", Status: schedule.PresenceOnline})
	notifier := &recordingNotifier{}
	d := New(store, WithNotifier(notifier), WithClock(fixedClock))

	d.Dispatch(context.Background(), actions.ShareCalendar{
		FriendName:   "Alex",
		Timeframe:    "this_week",
		ResponseText: "Shared.",
	})

	if got := len(store.Messages()); got != 0 {
		t.Fatalf("expected no message appended, got %d", got)
	}
	if got := notifier.last(t); got.level != LevelInfo || got.title != "Nothing to Share" {
		t.Errorf("expected nothing-to-share notice, got %+v", got)
	}
}

func TestDispatchNoEffectVariantsLeaveStateAlone(t *testing.T) {
	d, store, notifier := newDispatcher(t)
	eventsBefore := store.Events()
	messagesBefore := store.Messages()

	for _, action := range []actions.Action{
		actions.QuerySchedule{Timeframe: "today", ResponseText: "You have two events."},
		actions.Respond{ResponseText: "Hello!"},
	} {
		d.Dispatch(context.Background(), action)
	}

	if len(store.Events()) != len(eventsBefore) {
		t.Errorf("expected events untouched")
	}
	if len(store.Messages()) != len(messagesBefore) {
		t.Errorf("expected messages untouched")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.notices) != 0 {
		t.Errorf("expected no notifications for no-effect variants, got %+v", notifier.notices)
	}
}
