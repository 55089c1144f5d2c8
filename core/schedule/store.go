package schedule

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Store owns the authoritative in-memory collections of events, friends and
// messages for one session. Updates replace the stored slices rather than
// mutating entries in place, and reads hand out deep copies, so a snapshot
// taken by a reader is never affected by later mutations.
//
// Identifiers are random UUIDs; once issued they are never reused for a
// different entity within a session.
type Store struct {
	mu sync.RWMutex

	events   []Event
	friends  []Friend
	messages []Message

	// now supplies message timestamps, replaceable for tests.
	now func() time.Time
	// newID issues entity identifiers, replaceable for tests.
	newID func() string
}

func NewStore(opts ...StoreOption) *Store {
	store := &Store{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

type StoreOption func(*Store)

// WithSeedData populates the store with the bundled sample schedule.
func WithSeedData() StoreOption {
	return func(s *Store) {
		s.events = seedEvents()
		s.friends = seedFriends()
		s.messages = seedMessages(s.now)
	}
}

// WithClock replaces the timestamp source used for new messages.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the identifier source used for new entities.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Events returns a deep-copied snapshot of all events.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []Event
	_ = copier.CopyWithOption(&events, s.events, copier.Option{DeepCopy: true})
	return events
}

// Friends returns a deep-copied snapshot of all friends.
func (s *Store) Friends() []Friend {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var friends []Friend
	_ = copier.CopyWithOption(&friends, s.friends, copier.Option{DeepCopy: true})
	return friends
}

// Messages returns a deep-copied snapshot of all messages.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []Message
	_ = copier.CopyWithOption(&messages, s.messages, copier.Option{DeepCopy: true})
	return messages
}

// AddEvent inserts a new event, assigning its identifier, and returns the
// stored copy. A zero duration defaults to 60 minutes.
func (s *Store) AddEvent(event Event) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.newID()
	if event.Duration <= 0 {
		event.Duration = 60
	}
	if event.Type == "" {
		event.Type = EventTypeWork
	}

	events := make([]Event, 0, len(s.events)+1)
	events = append(events, s.events...)
	events = append(events, event)
	s.events = events

	return event
}

// UpdateEvent shallow-merges the patch into the event with the given id and
// reports whether a matching event existed. A missing id is a no-op.
func (s *Store) UpdateEvent(id string, patch EventPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]Event, len(s.events))
	copy(events, s.events)

	updated := false
	for i := range events {
		if events[i].ID == id {
			patch.apply(&events[i])
			updated = true
		}
	}

	s.events = events
	return updated
}

// DeleteEvent removes the event with the given id. Idempotent, a missing id
// is a no-op.
func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]Event, 0, len(s.events))
	deleted := false
	for _, event := range s.events {
		if event.ID == id {
			deleted = true
			continue
		}
		events = append(events, event)
	}

	s.events = events
	return deleted
}

// AddFriend inserts a new contact and returns the stored copy.
func (s *Store) AddFriend(friend Friend) Friend {
	s.mu.Lock()
	defer s.mu.Unlock()

	if friend.ID == "" {
		friend.ID = s.newID()
	}
	if friend.Status == "" {
		friend.Status = PresenceOffline
	}

	friends := make([]Friend, 0, len(s.friends)+1)
	friends = append(friends, s.friends...)
	friends = append(friends, friend)
	s.friends = friends

	return friend
}

// FriendByName resolves a friend by case-insensitive substring match against
// contact names, returning the first match in seeding order.
func (s *Store) FriendByName(name string) (Friend, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, friend := range s.friends {
		if containsFold(friend.Name, name) {
			return friend, true
		}
	}
	return Friend{}, false
}

// AddMessage appends a message, assigning its identifier and stamping it
// with the current time when the timestamp is empty. Returns the stored copy.
func (s *Store) AddMessage(message Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.newID()
	if message.Timestamp == "" {
		message.Timestamp = s.now().Format(time.RFC3339)
	}

	messages := make([]Message, 0, len(s.messages)+1)
	messages = append(messages, s.messages...)
	messages = append(messages, message)
	s.messages = messages

	return message
}

// MarkThreadRead flags every message exchanged with the given friend as read.
func (s *Store) MarkThreadRead(friendID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	for i := range messages {
		if messages[i].SenderID == friendID || messages[i].ReceiverID == friendID {
			messages[i].IsRead = true
		}
	}

	s.messages = messages
}

// EventsOn returns the events scheduled on the given ISO date, in
// chronological order.
func (s *Store) EventsOn(date string) []Event {
	events := s.Events()

	dayEvents := events[:0]
	for _, event := range events {
		if event.Date == date {
			dayEvents = append(dayEvents, event)
		}
	}

	sortEventsByTime(dayEvents)
	return dayEvents
}
