package actions

// Envelope is the wire shape the language model is constrained to. It is the
// flattened form of the action union: the action tag plus the superset of
// variant fields, reflected into a JSON schema for structured generation.
//
// The envelope is untrusted input. [Decode] is the only way to turn one into
// an Action.
type Envelope struct {
	Action string `json:"action" jsonschema:"enum=create_event,enum=update_event,enum=delete_event,enum=query_schedule,enum=find_availability,enum=send_message,enum=share_calendar,enum=respond,description=The scheduling action to perform"`

	// create_event
	Event *EventDraft `json:"event,omitempty" jsonschema:"description=The event to create (create_event only); date is ISO YYYY-MM-DD and time is 24-hour HH:MM"`

	// update_event / delete_event
	EventID string      `json:"eventId,omitempty" jsonschema:"description=Identifier of the event to update or delete"`
	Updates *EventPatch `json:"updates,omitempty" jsonschema:"description=Fields to change (update_event only)"`

	// query_schedule / find_availability / share_calendar
	Timeframe string `json:"timeframe,omitempty" jsonschema:"description=Timeframe qualifier for query_schedule (today/tomorrow/this_week/next_week/specific_date), find_availability (morning/afternoon/evening/all_day) or share_calendar (today/this_week/next_week)"`
	Date      string `json:"date,omitempty" jsonschema:"description=ISO date the action applies to"`
	Duration  int    `json:"duration,omitempty" jsonschema:"description=Requested duration in minutes, defaults to 60"`

	// find_availability
	AvailableSlots []string `json:"availableSlots,omitempty" jsonschema:"description=Suggested free slots as 'HH:MM - HH:MM' strings (find_availability only)"`

	// send_message / share_calendar
	FriendName string `json:"friendName,omitempty" jsonschema:"description=Name of the friend, must be one of the available friends"`
	Message    string `json:"message,omitempty" jsonschema:"description=Message content to send (send_message only)"`

	Response string `json:"response" jsonschema:"description=Natural conversational confirmation of the action taken"`
}
