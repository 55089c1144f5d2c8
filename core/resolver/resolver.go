// Package resolver turns a raw utterance into exactly one validated
// scheduling action by delegating to a structured-generation service.
package resolver

import (
	"context"

	"github.com/aldenmarch/voicecal/core/actions"
	"github.com/aldenmarch/voicecal/core/schedule"
)

// FallbackResponse is the fixed apology used whenever resolution fails.
const FallbackResponse = "Sorry, I had trouble understanding that command. Could you please try again?"

// Resolver produces one action per utterance. Implementations are expected
// to recover from their own transport and validation failures by returning
// the fallback respond action; the error return exists so callers can guard
// against implementations that do not.
type Resolver interface {
	Resolve(ctx context.Context, utterance string, events []schedule.Event, friends []schedule.Friend) (actions.Action, error)
}

// Fallback returns the safe respond action used when resolution fails.
func Fallback() actions.Action {
	return actions.Respond{ResponseText: FallbackResponse}
}
