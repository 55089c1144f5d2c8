// Package assistant orchestrates the command pipeline: spoken or typed
// utterances are transcribed, resolved into actions and dispatched against
// the schedule, with the response optionally spoken back.
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aldenmarch/voicecal/core/actions"
	"github.com/aldenmarch/voicecal/core/dispatch"
	"github.com/aldenmarch/voicecal/core/resolver"
	"github.com/aldenmarch/voicecal/core/schedule"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is the assistant's processing state. Mute is tracked separately,
// a muted assistant still listens and processes.
type State string

const (
	// StateIdle means the assistant is waiting for a command.
	StateIdle State = "idle"
	// StateListening means a voice capture session is active.
	StateListening State = "listening"
	// StateProcessing means a command is being resolved and dispatched.
	// New capture sessions cannot start until processing finishes.
	StateProcessing State = "processing"
)

type Assistant struct {
	store      *schedule.Store
	resolver   resolver.Resolver
	dispatcher *dispatch.Dispatcher

	capture      captureSession
	speech       speechOutput
	conversation *conversationLog
	queue        *utteranceQueue

	state   State
	stateMu sync.Mutex

	sessionOptions SessionOptions
	baseContext    context.Context
	closeOnce      sync.Once

	now func() time.Time
}

func New(store *schedule.Store, opts ...AssistantOption) *Assistant {
	a := &Assistant{
		store:        store,
		conversation: newConversationLog(),
		queue:        newUtteranceQueue(),
		state:        StateIdle,
		baseContext:  context.Background(),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.dispatcher == nil {
		a.dispatcher = dispatch.New(store)
	}

	return a
}

// Start wires session callbacks and begins serving commands.
//
// ctx is used as a base context for resolution and dispatch, allowing for
// cancellation.
//
// Contract: call Start at most once per assistant instance. Repeated or
// concurrent calls are unsupported and may race while callbacks are being
// reconfigured.
func (a *Assistant) Start(ctx context.Context, opts ...SessionOption) {
	if !a.queue.CanIngest() {
		log.Println("Warning: assistant already closed, skipping Start")
		return
	}

	a.sessionOptions = SessionOptions{}
	for _, opt := range opts {
		opt(&a.sessionOptions)
	}

	a.baseContext = ctx
	a.conversation.SetOnTurn(a.sessionOptions.onTurn)
	a.capture.configure(ctx, captureCallbacks{
		onInterimTranscript: a.onInterimTranscript,
		onTranscript:        a.onTranscript,
		onError:             a.invokeError,
		onStopped: func() {
			a.compareAndSetState(StateListening, StateIdle)
		},
	})

	if started := a.queue.StartLoop(ctx, a.handleCommand); started {
		go func() {
			<-ctx.Done()
			a.Close()
		}()
	}
}

func (a *Assistant) Close() {
	a.closeOnce.Do(func() {
		a.queue.Stop()

		if err := a.capture.Close(a.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close capture session: %w", err)
			span := trace.SpanFromContext(a.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if err := a.speech.Close(a.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close speech output: %w", err)
			span := trace.SpanFromContext(a.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		a.queue.AwaitDone()
	})
}

// CaptureSupported reports whether voice input is available. Typed
// commands through [Assistant.SubmitCommand] work either way.
func (a *Assistant) CaptureSupported() bool { return a.capture.Supported() }

func (a *Assistant) State() State {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state
}

func (a *Assistant) setState(state State) {
	a.stateMu.Lock()
	if a.state == state {
		a.stateMu.Unlock()
		return
	}
	a.state = state
	a.stateMu.Unlock()

	if a.sessionOptions.onStateChanged != nil {
		a.sessionOptions.onStateChanged(state)
	}
}

// compareAndSetState transitions from one state to another atomically,
// reporting whether the transition happened.
func (a *Assistant) compareAndSetState(from, to State) bool {
	a.stateMu.Lock()
	if a.state != from {
		a.stateMu.Unlock()
		return false
	}
	a.state = to
	a.stateMu.Unlock()

	if a.sessionOptions.onStateChanged != nil {
		a.sessionOptions.onStateChanged(to)
	}
	return true
}

// StartListening opens a voice capture session. It fails while a command
// is still being processed.
func (a *Assistant) StartListening() error {
	if !a.capture.Supported() {
		return fmt.Errorf("voice capture not configured")
	}

	if !a.compareAndSetState(StateIdle, StateListening) {
		return fmt.Errorf("cannot start listening in %q state", a.State())
	}

	if err := a.capture.Start(); err != nil {
		a.compareAndSetState(StateListening, StateIdle)
		return fmt.Errorf("failed to start capture session: %w", err)
	}

	return nil
}

// StopListening ends the voice capture session without processing
// anything further.
func (a *Assistant) StopListening() error {
	err := a.capture.Stop()
	a.compareAndSetState(StateListening, StateIdle)
	return err
}

func (a *Assistant) IsListening() bool { return a.capture.IsListening() }

// SubmitCommand feeds a typed command into the pipeline. It goes through
// the same resolution and dispatch path as a spoken one.
func (a *Assistant) SubmitCommand(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	a.queue.Ingest(command)
}

func (a *Assistant) SetMuted(muted bool) { a.speech.SetMuted(muted) }
func (a *Assistant) IsMuted() bool       { return a.speech.IsMuted() }

// Conversation returns a point-in-time snapshot of the session log.
func (a *Assistant) Conversation() []ConversationTurn {
	return a.conversation.Snapshot()
}

func (a *Assistant) onInterimTranscript(transcript string) {
	if a.sessionOptions.onInterimTranscript != nil {
		a.sessionOptions.onInterimTranscript(transcript)
	}
}

// onTranscript receives the finalized utterance from the capture session.
// The session ends here, the utterance is queued for processing.
func (a *Assistant) onTranscript(transcript string) {
	if a.sessionOptions.onTranscript != nil {
		a.sessionOptions.onTranscript(transcript)
	}

	_ = a.capture.Stop()

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		a.compareAndSetState(StateListening, StateIdle)
		return
	}

	a.queue.Ingest(transcript)
}

// handleCommand runs one utterance through resolution and dispatch. It
// cannot fail the pipeline: resolution trouble degrades to the fallback
// response instead.
func (a *Assistant) handleCommand(ctx context.Context, utterance string) error {
	a.setState(StateProcessing)
	defer a.setState(StateIdle)

	ctx, span := tracer.Start(ctx, "handle command")
	defer span.End()

	a.conversation.Append(ConversationTurn{
		Role:      RoleUser,
		Content:   utterance,
		Timestamp: a.now(),
	})

	action := a.resolve(ctx, utterance)

	a.conversation.Append(ConversationTurn{
		Role:      RoleAssistant,
		Content:   action.Response(),
		ActionTag: action.Tag(),
		Timestamp: a.now(),
	})

	a.dispatcher.Dispatch(ctx, action)

	if err := a.speech.Say(ctx, action.Response()); err != nil {
		a.invokeError(err)
	}

	return nil
}

// resolve maps the utterance to an action. Any resolution trouble, a
// missing resolver included, produces the fallback response.
func (a *Assistant) resolve(ctx context.Context, utterance string) actions.Action {
	if a.resolver == nil {
		return resolver.Fallback()
	}

	action, err := a.resolver.Resolve(ctx, utterance, a.store.Events(), a.store.Friends())
	if err != nil {
		a.invokeError(fmt.Errorf("failed to resolve command: %w", err))
		return resolver.Fallback()
	}

	return action
}

func (a *Assistant) invokeError(err error) {
	logger.WarnContext(a.baseContext, "assistant error", "error", err)
	if a.sessionOptions.onError != nil {
		a.sessionOptions.onError(err)
	}
}
