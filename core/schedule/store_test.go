package schedule

import (
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 11, 9, 30, 0, 0, time.UTC)
}

func TestAddEventAssignsUniqueIDs(t *testing.T) {
	store := NewStore(WithClock(fixedClock))

	first := store.AddEvent(Event{Title: "Standup", Date: "2025-01-11", Time: "09:00"})
	second := store.AddEvent(Event{Title: "Retro", Date: "2025-01-11", Time: "09:00"})

	if first.ID == "" || second.ID == "" {
		t.Fatalf("expected assigned ids, got %q and %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids for rapid sequential inserts, both got %q", first.ID)
	}
}

func TestAddEventDefaultsDurationAndType(t *testing.T) {
	store := NewStore()

	event := store.AddEvent(Event{Title: "Standup", Date: "2025-01-11", Time: "09:00"})

	if event.Duration != 60 {
		t.Errorf("expected default duration 60, got %d", event.Duration)
	}
	if event.Type != EventTypeWork {
		t.Errorf("expected default type %q, got %q", EventTypeWork, event.Type)
	}
}

func TestUpdateEventMergesPatch(t *testing.T) {
	store := NewStore(WithSeedData())

	title := "Team Sync"
	duration := 30
	if updated := store.UpdateEvent("1", EventPatch{Title: &title, Duration: &duration}); !updated {
		t.Fatalf("expected update to find event 1")
	}

	events := store.EventsOn("2025-01-11")
	if len(events) != 2 {
		t.Fatalf("expected 2 events on 2025-01-11, got %d", len(events))
	}
	if events[0].Title != "Team Sync" || events[0].Duration != 30 {
		t.Errorf("expected patched title/duration, got %q/%d", events[0].Title, events[0].Duration)
	}
	if events[0].Time != "10:00" {
		t.Errorf("expected unpatched time to survive, got %q", events[0].Time)
	}
}

func TestUpdateEventMissingIDIsNoop(t *testing.T) {
	store := NewStore(WithSeedData())
	before := store.Events()

	title := "Ghost"
	if updated := store.UpdateEvent("does-not-exist", EventPatch{Title: &title}); updated {
		t.Fatalf("expected missing id to report no update")
	}

	after := store.Events()
	if len(after) != len(before) {
		t.Fatalf("expected event count unchanged, got %d != %d", len(after), len(before))
	}
	for i := range after {
		if after[i] != before[i] {
			t.Errorf("expected event %d unchanged, got %+v != %+v", i, after[i], before[i])
		}
	}
}

func TestDeleteEventIsIdempotent(t *testing.T) {
	store := NewStore(WithSeedData())

	if deleted := store.DeleteEvent("2"); !deleted {
		t.Fatalf("expected first delete to remove event 2")
	}
	afterFirst := store.Events()

	if deleted := store.DeleteEvent("2"); deleted {
		t.Fatalf("expected second delete to be a no-op")
	}
	afterSecond := store.Events()

	if len(afterFirst) != len(afterSecond) {
		t.Fatalf("expected same collection after repeated delete, got %d != %d", len(afterFirst), len(afterSecond))
	}
	for i := range afterFirst {
		if afterFirst[i] != afterSecond[i] {
			t.Errorf("expected event %d unchanged, got %+v != %+v", i, afterFirst[i], afterSecond[i])
		}
	}
}

func TestSnapshotsAreIsolatedFromStore(t *testing.T) {
	store := NewStore(WithSeedData())

	snapshot := store.Events()
	snapshot[0].Title = "Mutated"

	if store.Events()[0].Title == "Mutated" {
		t.Fatalf("expected reader snapshot mutation to not affect the store")
	}
}

func TestFriendByNameMatchesCaseInsensitiveSubstring(t *testing.T) {
	store := NewStore(WithSeedData())

	friend, ok := store.FriendByName("alex")
	if !ok {
		t.Fatalf("expected to resolve friend by lowercase substring")
	}
	if friend.Name != "Alex Johnson" {
		t.Errorf("expected Alex Johnson, got %q", friend.Name)
	}

	if _, ok := store.FriendByName("zelda"); ok {
		t.Errorf("expected no match for unknown name")
	}
}

func TestAddMessageStampsTimestamp(t *testing.T) {
	store := NewStore(WithClock(fixedClock))

	message := store.AddMessage(Message{
		SenderID:   LocalUserID,
		ReceiverID: "1",
		Content:    "running late",
	})

	if message.ID == "" {
		t.Fatalf("expected assigned message id")
	}
	if message.Timestamp != fixedClock().Format(time.RFC3339) {
		t.Errorf("expected clock timestamp, got %q", message.Timestamp)
	}
}

func TestMarkThreadRead(t *testing.T) {
	store := NewStore(WithSeedData())
	store.AddMessage(Message{SenderID: "1", ReceiverID: LocalUserID, Content: "sure!"})

	store.MarkThreadRead("1")

	for _, message := range store.Messages() {
		if (message.SenderID == "1" || message.ReceiverID == "1") && !message.IsRead {
			t.Errorf("expected message %q to be marked read", message.ID)
		}
	}
}
