package assistant

import (
	"sync"
	"time"

	"github.com/aldenmarch/voicecal/core/actions"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one exchange entry in the session log. Assistant
// turns carry the action tag that produced them.
type ConversationTurn struct {
	Role      Role
	Content   string
	ActionTag actions.Tag
	Timestamp time.Time
}

// conversationLog is the append-only session history. Snapshots are
// copies, mutating a returned slice does not affect the log.
type conversationLog struct {
	turns []ConversationTurn
	mu    sync.Mutex

	onTurn func(turn ConversationTurn)
}

func newConversationLog() *conversationLog {
	return &conversationLog{onTurn: func(ConversationTurn) {}}
}

func (l *conversationLog) SetOnTurn(onTurn func(turn ConversationTurn)) {
	if l == nil {
		return
	}

	if onTurn != nil {
		l.onTurn = onTurn
	}
}

func (l *conversationLog) Append(turn ConversationTurn) {
	if l == nil {
		return
	}

	l.mu.Lock()
	l.turns = append(l.turns, turn)
	l.mu.Unlock()

	l.onTurn(turn)
}

func (l *conversationLog) Snapshot() []ConversationTurn {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]ConversationTurn, len(l.turns))
	copy(snapshot, l.turns)
	return snapshot
}
