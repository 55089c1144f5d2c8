// Package dispatch maps resolved actions onto scheduling state mutations
// and user-visible notifications.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aldenmarch/voicecal/core/actions"
	"github.com/aldenmarch/voicecal/core/availability"
	"github.com/aldenmarch/voicecal/core/schedule"
	"github.com/aldenmarch/voicecal/internal/ics"
	"go.opentelemetry.io/otel/attribute"
)

// Dispatcher executes the effect of each action variant against the state
// store. Execution is best-effort: no variant can fail, missing ids are
// no-ops, and the only observable side effects are store mutations and
// transient notifications.
type Dispatcher struct {
	store  *schedule.Store
	notify Notifier

	// now supplies the default date for availability searches.
	now func() time.Time
}

type Option func(*Dispatcher)

// WithNotifier routes effect notices to the given notifier.
func WithNotifier(notifier Notifier) Option {
	return func(d *Dispatcher) {
		if notifier != nil {
			d.notify = notifier
		}
	}
}

// WithClock replaces the time source used for default dates.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

func New(store *schedule.Store, opts ...Option) *Dispatcher {
	dispatcher := &Dispatcher{
		store:  store,
		notify: noopNotifier{},
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(dispatcher)
	}

	return dispatcher
}

// Dispatch runs the effect of one action. The type switch is total over the
// closed variant set; a new variant is a compile error here, not a silent
// runtime default.
func (d *Dispatcher) Dispatch(ctx context.Context, action actions.Action) {
	ctx, span := tracer.Start(ctx, "dispatch action")
	defer span.End()
	span.SetAttributes(attribute.String("action.tag", string(action.Tag())))

	switch action := action.(type) {
	case actions.CreateEvent:
		d.createEvent(ctx, action)
	case actions.UpdateEvent:
		d.updateEvent(ctx, action)
	case actions.DeleteEvent:
		d.deleteEvent(ctx, action)
	case actions.QuerySchedule:
		// Response text alone is surfaced.
	case actions.FindAvailability:
		d.findAvailability(ctx, action)
	case actions.SendMessage:
		d.sendMessage(ctx, action)
	case actions.ShareCalendar:
		d.shareCalendar(ctx, action)
	case actions.Respond:
		// No effect.
	}
}

func (d *Dispatcher) createEvent(ctx context.Context, action actions.CreateEvent) {
	event := d.store.AddEvent(schedule.Event{
		Title:       action.Event.Title,
		Date:        action.Event.Date,
		Time:        action.Event.Time,
		Duration:    action.Event.Duration,
		Type:        schedule.EventType(action.Event.Type),
		Description: action.Event.Description,
	})

	logger.InfoContext(ctx, "event created", "id", event.ID, "date", event.Date, "time", event.Time)
	d.notify.Notify(LevelSuccess, "Event Created",
		fmt.Sprintf("%q has been added to your calendar.", event.Title))
}

func (d *Dispatcher) updateEvent(ctx context.Context, action actions.UpdateEvent) {
	patch := schedule.EventPatch{
		Title:       action.Updates.Title,
		Date:        action.Updates.Date,
		Time:        action.Updates.Time,
		Duration:    action.Updates.Duration,
		Description: action.Updates.Description,
	}
	if action.Updates.Type != nil {
		eventType := schedule.EventType(*action.Updates.Type)
		patch.Type = &eventType
	}

	updated := d.store.UpdateEvent(action.EventID, patch)
	if !updated {
		logger.InfoContext(ctx, "update targeted missing event", "id", action.EventID)
	}

	// A patch over zero elements is a no-op, so success is reported either
	// way.
	d.notify.Notify(LevelSuccess, "Event Updated", "Your event has been successfully updated.")
}

func (d *Dispatcher) deleteEvent(ctx context.Context, action actions.DeleteEvent) {
	deleted := d.store.DeleteEvent(action.EventID)
	if !deleted {
		logger.InfoContext(ctx, "delete targeted missing event", "id", action.EventID)
	}

	d.notify.Notify(LevelSuccess, "Event Deleted", "The event has been removed from your calendar.")
}

func (d *Dispatcher) findAvailability(ctx context.Context, action actions.FindAvailability) {
	date := action.Date
	if date == "" {
		date = d.now().Format("2006-01-02")
	}

	slots := availability.FindSlots(d.store.Events(), date, action.Duration)

	logger.InfoContext(ctx, "availability searched", "date", date, "slots", len(slots))
	d.notify.Notify(LevelInfo, "Available Time Slots",
		fmt.Sprintf("Found %d available slots.", len(slots)))
}

func (d *Dispatcher) sendMessage(ctx context.Context, action actions.SendMessage) {
	friend, found := d.store.FriendByName(action.FriendName)
	if !found {
		logger.WarnContext(ctx, "message targeted unknown friend", "name", action.FriendName)
		d.notify.Notify(LevelWarn, "Friend Not Found",
			fmt.Sprintf("No contact matches %q.", action.FriendName))
		return
	}

	d.store.AddMessage(schedule.Message{
		SenderID:   schedule.LocalUserID,
		ReceiverID: friend.ID,
		Content:    action.Message,
	})

	d.notify.Notify(LevelSuccess, "Message Sent",
		fmt.Sprintf("Message sent to %s.", friend.Name))
}

func (d *Dispatcher) shareCalendar(ctx context.Context, action actions.ShareCalendar) {
	friend, found := d.store.FriendByName(action.FriendName)
	if !found {
		logger.WarnContext(ctx, "calendar share targeted unknown friend", "name", action.FriendName)
		d.notify.Notify(LevelWarn, "Friend Not Found",
			fmt.Sprintf("No contact matches %q.", action.FriendName))
		return
	}

	now := d.now()
	events := eventsInTimeframe(d.store.Events(), action.Timeframe, now)
	invite, err := ics.Build(events, now)
	if err != nil {
		logger.InfoContext(ctx, "no events to share", "timeframe", action.Timeframe)
		d.notify.Notify(LevelInfo, "Nothing to Share",
			fmt.Sprintf("No events found for %s.", timeframeLabel(action.Timeframe)))
		return
	}

	d.store.AddMessage(schedule.Message{
		SenderID:   schedule.LocalUserID,
		ReceiverID: friend.ID,
		Content:    fmt.Sprintf("Sharing my calendar for %s:\n%s", timeframeLabel(action.Timeframe), invite),
	})

	d.notify.Notify(LevelSuccess, "Calendar Shared",
		fmt.Sprintf("Calendar sent to %s.", friend.Name))
}

// eventsInTimeframe filters events to the requested share window. Weeks
// start on Sunday.
func eventsInTimeframe(events []schedule.Event, timeframe string, now time.Time) []schedule.Event {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))

	var from, to time.Time
	switch timeframe {
	case "this_week":
		from, to = weekStart, weekStart.AddDate(0, 0, 7)
	case "next_week":
		from, to = weekStart.AddDate(0, 0, 7), weekStart.AddDate(0, 0, 14)
	default:
		from, to = today, today.AddDate(0, 0, 1)
	}

	var filtered []schedule.Event
	for _, event := range events {
		date, err := time.ParseInLocation("2006-01-02", event.Date, now.Location())
		if err != nil {
			continue
		}
		if !date.Before(from) && date.Before(to) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func timeframeLabel(timeframe string) string {
	if timeframe == "" {
		return "today"
	}
	return strings.ReplaceAll(timeframe, "_", " ")
}
