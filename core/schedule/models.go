package schedule

// LocalUserID is the sentinel participant identifier for the device owner in
// message records.
const LocalUserID = "me"

type EventType string

const (
	EventTypeWork     EventType = "work"
	EventTypePersonal EventType = "personal"
)

// Event is a single calendar entry. Date is an ISO calendar date
// (YYYY-MM-DD) and Time is 24-hour HH:MM, both in local wall-clock time.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Duration    int       `json:"duration"`
	Type        EventType `json:"type"`
	Description string    `json:"description,omitempty"`
}

// EventPatch carries the fields of a partial event update. Nil fields are
// left untouched.
type EventPatch struct {
	Title       *string
	Date        *string
	Time        *string
	Duration    *int
	Type        *EventType
	Description *string
}

func (p EventPatch) apply(event *Event) {
	if p.Title != nil {
		event.Title = *p.Title
	}
	if p.Date != nil {
		event.Date = *p.Date
	}
	if p.Time != nil {
		event.Time = *p.Time
	}
	if p.Duration != nil {
		event.Duration = *p.Duration
	}
	if p.Type != nil {
		event.Type = *p.Type
	}
	if p.Description != nil {
		event.Description = *p.Description
	}
}

type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
)

// Friend is a known contact. Presence is static after seeding, there is no
// live presence feed.
type Friend struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar,omitempty"`
	Status Presence `json:"status"`
}

// Message is one direct message between the local user and a friend.
// SenderID and ReceiverID are a friend id and [LocalUserID], never two
// friend ids.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
	IsRead     bool   `json:"isRead"`
}
