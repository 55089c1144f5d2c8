// Package actions defines the closed contract between the action resolver
// and the effect dispatcher.
//
// An Action is one of exactly eight variants, discriminated by tag. The
// interface carries an unexported marker method so no variant can be added
// outside this package, which lets the dispatcher treat its type switch as
// total over the set.
package actions

type Tag string

const (
	TagCreateEvent      Tag = "create_event"
	TagUpdateEvent      Tag = "update_event"
	TagDeleteEvent      Tag = "delete_event"
	TagQuerySchedule    Tag = "query_schedule"
	TagFindAvailability Tag = "find_availability"
	TagSendMessage      Tag = "send_message"
	TagShareCalendar    Tag = "share_calendar"
	TagRespond          Tag = "respond"
)

// Tags lists every known action tag.
func Tags() []Tag {
	return []Tag{
		TagCreateEvent,
		TagUpdateEvent,
		TagDeleteEvent,
		TagQuerySchedule,
		TagFindAvailability,
		TagSendMessage,
		TagShareCalendar,
		TagRespond,
	}
}

// Action is one resolved scheduling command. Every variant carries a
// human-readable response string.
type Action interface {
	isAction()
	Tag() Tag
	Response() string
}

// EventDraft is the event payload of a create_event action, an event without
// an identifier.
type EventDraft struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    int    `json:"duration"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// EventPatch is the partial-update payload of an update_event action. Nil
// fields were not mentioned by the user.
type EventPatch struct {
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsZero reports whether the patch mentions no fields at all.
func (p EventPatch) IsZero() bool {
	return p.Title == nil && p.Date == nil && p.Time == nil &&
		p.Duration == nil && p.Type == nil && p.Description == nil
}

type CreateEvent struct {
	Event        EventDraft
	ResponseText string
}

type UpdateEvent struct {
	EventID      string
	Updates      EventPatch
	ResponseText string
}

type DeleteEvent struct {
	EventID      string
	ResponseText string
}

type QuerySchedule struct {
	// Timeframe is one of today, tomorrow, this_week, next_week,
	// specific_date.
	Timeframe    string
	Date         string
	ResponseText string
}

type FindAvailability struct {
	Date     string
	Duration int
	// Timeframe, when present, is one of morning, afternoon, evening,
	// all_day.
	Timeframe      string
	AvailableSlots []string
	ResponseText   string
}

type SendMessage struct {
	FriendName   string
	Message      string
	ResponseText string
}

type ShareCalendar struct {
	FriendName string
	// Timeframe is one of today, this_week, next_week.
	Timeframe    string
	ResponseText string
}

// Respond is the no-effect variant, and the fallback every failure path
// collapses to.
type Respond struct {
	ResponseText string
}

func (CreateEvent) isAction()      {}
func (UpdateEvent) isAction()      {}
func (DeleteEvent) isAction()      {}
func (QuerySchedule) isAction()    {}
func (FindAvailability) isAction() {}
func (SendMessage) isAction()      {}
func (ShareCalendar) isAction()    {}
func (Respond) isAction()          {}

func (CreateEvent) Tag() Tag      { return TagCreateEvent }
func (UpdateEvent) Tag() Tag      { return TagUpdateEvent }
func (DeleteEvent) Tag() Tag      { return TagDeleteEvent }
func (QuerySchedule) Tag() Tag    { return TagQuerySchedule }
func (FindAvailability) Tag() Tag { return TagFindAvailability }
func (SendMessage) Tag() Tag      { return TagSendMessage }
func (ShareCalendar) Tag() Tag    { return TagShareCalendar }
func (Respond) Tag() Tag          { return TagRespond }

func (a CreateEvent) Response() string      { return a.ResponseText }
func (a UpdateEvent) Response() string      { return a.ResponseText }
func (a DeleteEvent) Response() string      { return a.ResponseText }
func (a QuerySchedule) Response() string    { return a.ResponseText }
func (a FindAvailability) Response() string { return a.ResponseText }
func (a SendMessage) Response() string      { return a.ResponseText }
func (a ShareCalendar) Response() string    { return a.ResponseText }
func (a Respond) Response() string          { return a.ResponseText }
