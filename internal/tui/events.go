package tui

import (
	"time"

	assistant "github.com/aldenmarch/voicecal/core"
	"github.com/aldenmarch/voicecal/core/dispatch"
	tea "github.com/charmbracelet/bubbletea"
)

// assistantStateMsg reports an assistant state transition.
type assistantStateMsg struct {
	state assistant.State
}

// interimTranscriptMsg carries the in-progress utterance transcript. Each
// message replaces the previous value.
type interimTranscriptMsg struct {
	transcript string
}

// turnMsg delivers a new conversation turn.
type turnMsg struct {
	turn assistant.ConversationTurn
}

// noticeMsg delivers an effect notification from the dispatcher.
type noticeMsg struct {
	level  dispatch.Level
	title  string
	detail string
	at     time.Time
}

// assistantErrorMsg reports a non-fatal pipeline error.
type assistantErrorMsg struct {
	err error
}

// noticeFadeMsg clears an expired notice from the status area.
type noticeFadeMsg struct{}

// exportResultMsg reports the outcome of a calendar export.
type exportResultMsg struct {
	path string
	err  error
}

// listenForEvent returns a tea.Cmd that blocks until the next bridged
// assistant event arrives. The model re-arms it after every delivery.
func listenForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return event
	}
}
