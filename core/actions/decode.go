package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// ErrInvalidAction marks model output that does not match any of the known
// action shapes. Callers are expected to collapse it to a fallback Respond.
var ErrInvalidAction = errors.New("invalid action")

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

var (
	queryTimeframes        = []string{"today", "tomorrow", "this_week", "next_week", "specific_date"}
	availabilityTimeframes = []string{"morning", "afternoon", "evening", "all_day"}
	shareTimeframes        = []string{"today", "this_week", "next_week"}
)

// Decode validates raw model output against the action contract and returns
// the matching variant. Output that is not valid JSON, carries an unknown
// tag, or is missing a tag's required fields yields [ErrInvalidAction].
func Decode(raw []byte) (Action, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	return decodeEnvelope(envelope)
}

func decodeEnvelope(envelope Envelope) (Action, error) {
	if envelope.Response == "" {
		return nil, fmt.Errorf("%w: missing response text", ErrInvalidAction)
	}

	switch Tag(envelope.Action) {
	case TagCreateEvent:
		if envelope.Event == nil {
			return nil, fmt.Errorf("%w: create_event without event", ErrInvalidAction)
		}
		if err := validateDraft(*envelope.Event); err != nil {
			return nil, err
		}
		draft := *envelope.Event
		if draft.Duration <= 0 {
			draft.Duration = 60
		}
		return CreateEvent{Event: draft, ResponseText: envelope.Response}, nil

	case TagUpdateEvent:
		if envelope.EventID == "" {
			return nil, fmt.Errorf("%w: update_event without eventId", ErrInvalidAction)
		}
		var updates EventPatch
		if envelope.Updates != nil {
			updates = *envelope.Updates
		}
		if err := validatePatch(updates); err != nil {
			return nil, err
		}
		return UpdateEvent{EventID: envelope.EventID, Updates: updates, ResponseText: envelope.Response}, nil

	case TagDeleteEvent:
		if envelope.EventID == "" {
			return nil, fmt.Errorf("%w: delete_event without eventId", ErrInvalidAction)
		}
		return DeleteEvent{EventID: envelope.EventID, ResponseText: envelope.Response}, nil

	case TagQuerySchedule:
		if !slices.Contains(queryTimeframes, envelope.Timeframe) {
			return nil, fmt.Errorf("%w: query_schedule timeframe %q", ErrInvalidAction, envelope.Timeframe)
		}
		if envelope.Date != "" && !datePattern.MatchString(envelope.Date) {
			return nil, fmt.Errorf("%w: query_schedule date %q", ErrInvalidAction, envelope.Date)
		}
		return QuerySchedule{Timeframe: envelope.Timeframe, Date: envelope.Date, ResponseText: envelope.Response}, nil

	case TagFindAvailability:
		if envelope.Date != "" && !datePattern.MatchString(envelope.Date) {
			return nil, fmt.Errorf("%w: find_availability date %q", ErrInvalidAction, envelope.Date)
		}
		if envelope.Timeframe != "" && !slices.Contains(availabilityTimeframes, envelope.Timeframe) {
			return nil, fmt.Errorf("%w: find_availability timeframe %q", ErrInvalidAction, envelope.Timeframe)
		}
		duration := envelope.Duration
		if duration <= 0 {
			duration = 60
		}
		return FindAvailability{
			Date:           envelope.Date,
			Duration:       duration,
			Timeframe:      envelope.Timeframe,
			AvailableSlots: envelope.AvailableSlots,
			ResponseText:   envelope.Response,
		}, nil

	case TagSendMessage:
		if envelope.FriendName == "" || envelope.Message == "" {
			return nil, fmt.Errorf("%w: send_message without friendName or message", ErrInvalidAction)
		}
		return SendMessage{FriendName: envelope.FriendName, Message: envelope.Message, ResponseText: envelope.Response}, nil

	case TagShareCalendar:
		if envelope.FriendName == "" {
			return nil, fmt.Errorf("%w: share_calendar without friendName", ErrInvalidAction)
		}
		if !slices.Contains(shareTimeframes, envelope.Timeframe) {
			return nil, fmt.Errorf("%w: share_calendar timeframe %q", ErrInvalidAction, envelope.Timeframe)
		}
		return ShareCalendar{FriendName: envelope.FriendName, Timeframe: envelope.Timeframe, ResponseText: envelope.Response}, nil

	case TagRespond:
		return Respond{ResponseText: envelope.Response}, nil

	default:
		return nil, fmt.Errorf("%w: unknown tag %q", ErrInvalidAction, envelope.Action)
	}
}

func validateDraft(draft EventDraft) error {
	if draft.Title == "" {
		return fmt.Errorf("%w: event without title", ErrInvalidAction)
	}
	if !datePattern.MatchString(draft.Date) {
		return fmt.Errorf("%w: event date %q", ErrInvalidAction, draft.Date)
	}
	if !timePattern.MatchString(draft.Time) {
		return fmt.Errorf("%w: event time %q", ErrInvalidAction, draft.Time)
	}
	if draft.Duration < 0 {
		return fmt.Errorf("%w: event duration %d", ErrInvalidAction, draft.Duration)
	}
	if draft.Type != "" && draft.Type != "work" && draft.Type != "personal" {
		return fmt.Errorf("%w: event type %q", ErrInvalidAction, draft.Type)
	}
	return nil
}

func validatePatch(patch EventPatch) error {
	if patch.Date != nil && !datePattern.MatchString(*patch.Date) {
		return fmt.Errorf("%w: patch date %q", ErrInvalidAction, *patch.Date)
	}
	if patch.Time != nil && !timePattern.MatchString(*patch.Time) {
		return fmt.Errorf("%w: patch time %q", ErrInvalidAction, *patch.Time)
	}
	if patch.Duration != nil && *patch.Duration <= 0 {
		return fmt.Errorf("%w: patch duration %d", ErrInvalidAction, *patch.Duration)
	}
	if patch.Type != nil && *patch.Type != "work" && *patch.Type != "personal" {
		return fmt.Errorf("%w: patch type %q", ErrInvalidAction, *patch.Type)
	}
	return nil
}
