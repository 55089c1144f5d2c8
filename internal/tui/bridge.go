package tui

import (
	"time"

	assistant "github.com/aldenmarch/voicecal/core"
	"github.com/aldenmarch/voicecal/core/dispatch"
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge carries assistant and dispatcher callbacks, which fire on their
// own goroutines, into the bubbletea message loop. Create it before
// wiring the assistant so the dispatcher can deliver notices to the view.
type Bridge struct {
	events chan tea.Msg
}

func NewBridge() *Bridge {
	return &Bridge{events: make(chan tea.Msg, 64)}
}

// push delivers a bridged event without blocking the callback goroutine.
// A full channel drops the event; the panes re-read store state on every
// render, so nothing is permanently lost.
func (b *Bridge) push(message tea.Msg) {
	select {
	case b.events <- message:
	default:
	}
}

// Notifier returns the dispatcher notifier that surfaces effect notices
// in the status area.
func (b *Bridge) Notifier() dispatch.Notifier {
	return dispatch.NotifierFunc(func(level dispatch.Level, title, detail string) {
		b.push(noticeMsg{level: level, title: title, detail: detail, at: time.Now()})
	})
}

// SessionOptions returns the callback wiring to pass to the assistant's
// Start call.
func (b *Bridge) SessionOptions() []assistant.SessionOption {
	return []assistant.SessionOption{
		assistant.WithStateChangedCallback(func(state assistant.State) {
			b.push(assistantStateMsg{state: state})
		}),
		assistant.WithInterimTranscriptCallback(func(transcript string) {
			b.push(interimTranscriptMsg{transcript: transcript})
		}),
		assistant.WithTurnCallback(func(turn assistant.ConversationTurn) {
			b.push(turnMsg{turn: turn})
		}),
		assistant.WithErrorCallback(func(err error) {
			b.push(assistantErrorMsg{err: err})
		}),
	}
}
