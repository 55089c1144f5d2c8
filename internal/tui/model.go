// Package tui renders the calendar, friends and assistant panes and
// bridges assistant callbacks into the bubbletea message loop.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	assistant "github.com/aldenmarch/voicecal/core"
	"github.com/aldenmarch/voicecal/core/dispatch"
	"github.com/aldenmarch/voicecal/core/schedule"
	"github.com/aldenmarch/voicecal/internal/ics"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FocusRegion identifies where keyboard input goes.
type FocusRegion int

const (
	// FocusBrowse means keys navigate the calendar and friends panes.
	FocusBrowse FocusRegion = iota
	// FocusCommand means keystrokes go to the command input.
	FocusCommand
)

const (
	noticeFadeDelay  = 4 * time.Second
	conversationTail = 8

	commandPlaceholder  = "Ask your scheduling assistant..."
	quickAddPlaceholder = "Dentist 2025-01-14 14:00 45 personal"
)

// Model is the top-level bubbletea model.
type Model struct {
	store     *schedule.Store
	asst      *assistant.Assistant
	exportDir string
	now       func() time.Time

	theme    Theme
	keys     KeyMap
	helpView help.Model
	showHelp bool

	width  int
	height int
	ready  bool

	focus        FocusRegion
	selectedDate time.Time
	friendIndex  int

	input textinput.Model
	// quickAdd routes the next input submission to the event form parser
	// instead of the assistant.
	quickAdd bool

	state       assistant.State
	interim     string
	turns       []assistant.ConversationTurn
	notice      *noticeMsg
	statusError string

	events <-chan tea.Msg
}

func NewModel(store *schedule.Store, asst *assistant.Assistant, exportDir string, bridge *Bridge) Model {
	input := textinput.New()
	input.Placeholder = commandPlaceholder
	input.CharLimit = 280

	return Model{
		store:        store,
		asst:         asst,
		exportDir:    exportDir,
		now:          time.Now,
		theme:        DefaultTheme,
		keys:         DefaultKeyMap,
		helpView:     help.New(),
		selectedDate: time.Now(),
		input:        input,
		state:        assistant.StateIdle,
		events:       bridge.events,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForEvent(m.events))
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if m.focus == FocusCommand {
			return m.handleCommandKeys(message)
		}
		return m.handleBrowseKeys(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.helpView.Width = message.Width
		m.ready = true

	case assistantStateMsg:
		m.state = message.state
		if message.state == assistant.StateIdle {
			m.interim = ""
		}
		return m, listenForEvent(m.events)

	case interimTranscriptMsg:
		m.interim = message.transcript
		return m, listenForEvent(m.events)

	case turnMsg:
		m.turns = append(m.turns, message.turn)
		m.interim = ""
		return m, listenForEvent(m.events)

	case noticeMsg:
		notice := message
		m.notice = &notice
		return m, tea.Batch(
			listenForEvent(m.events),
			tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} }),
		)

	case assistantErrorMsg:
		m.statusError = message.err.Error()
		return m, tea.Batch(
			listenForEvent(m.events),
			tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} }),
		)

	case noticeFadeMsg:
		m.notice = nil
		m.statusError = ""

	case exportResultMsg:
		if message.err != nil {
			m.statusError = message.err.Error()
		} else {
			m.notice = &noticeMsg{
				level:  dispatch.LevelSuccess,
				title:  "Calendar Exported",
				detail: message.path,
				at:     time.Now(),
			}
		}
		return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} })
	}

	return m, nil
}

func (m Model) handleBrowseKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(message, m.keys.Command):
		m.focus = FocusCommand
		m.quickAdd = false
		m.input.Placeholder = commandPlaceholder
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(message, m.keys.AddEvent):
		m.focus = FocusCommand
		m.quickAdd = true
		m.input.Placeholder = quickAddPlaceholder
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(message, m.keys.Listen):
		if m.asst.IsListening() {
			if err := m.asst.StopListening(); err != nil {
				m.statusError = err.Error()
			}
		} else if err := m.asst.StartListening(); err != nil {
			m.statusError = err.Error()
		}

	case key.Matches(message, m.keys.Mute):
		m.asst.SetMuted(!m.asst.IsMuted())

	case key.Matches(message, m.keys.Export):
		return m, m.exportCalendar()

	case key.Matches(message, m.keys.PrevDay):
		m.selectedDate = m.selectedDate.AddDate(0, 0, -1)

	case key.Matches(message, m.keys.NextDay):
		m.selectedDate = m.selectedDate.AddDate(0, 0, 1)

	case key.Matches(message, m.keys.Today):
		m.selectedDate = m.now()

	case key.Matches(message, m.keys.CycleFriend):
		if friends := m.store.Friends(); len(friends) > 0 {
			m.friendIndex = (m.friendIndex + 1) % len(friends)
			// Opening a thread marks it read.
			m.store.MarkThreadRead(friends[m.friendIndex].ID)
		}

	case key.Matches(message, m.keys.MarkRead):
		if friends := m.store.Friends(); m.friendIndex < len(friends) {
			m.store.MarkThreadRead(friends[m.friendIndex].ID)
		}

	case key.Matches(message, m.keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m Model) handleCommandKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(message, m.keys.Cancel):
		m.focus = FocusBrowse
		m.quickAdd = false
		m.input.Placeholder = commandPlaceholder
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case message.Type == tea.KeyEnter:
		line := m.input.Value()
		m.input.SetValue("")
		m.focus = FocusBrowse
		m.input.Blur()
		if m.quickAdd {
			m.quickAdd = false
			m.input.Placeholder = commandPlaceholder
			return m.submitQuickAdd(line)
		}
		m.asst.SubmitCommand(line)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(message)
	return m, cmd
}

// submitQuickAdd parses a quick-add line and creates the event directly,
// bypassing the assistant pipeline.
func (m Model) submitQuickAdd(line string) (tea.Model, tea.Cmd) {
	event, err := parseQuickAdd(line, m.selectedDate)
	if err != nil {
		m.statusError = err.Error()
		return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} })
	}

	created := m.store.AddEvent(event)
	m.notice = &noticeMsg{
		level:  dispatch.LevelSuccess,
		title:  "Event Created",
		detail: fmt.Sprintf("%q has been added to your calendar.", created.Title),
		at:     time.Now(),
	}
	return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} })
}

// exportCalendar writes the full schedule as an ICS file into the export
// directory.
func (m Model) exportCalendar() tea.Cmd {
	events := m.store.Events()
	exportDir := m.exportDir
	now := m.now()

	return func() tea.Msg {
		serialized, err := ics.Build(events, now)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("failed to export calendar: %w", err)}
		}

		path := filepath.Join(exportDir, fmt.Sprintf("voicecal-%s.ics", now.Format("2006-01-02")))
		if err := os.WriteFile(path, []byte(serialized), 0o644); err != nil {
			return exportResultMsg{err: fmt.Errorf("failed to write calendar export: %w", err)}
		}

		return exportResultMsg{path: path}
	}
}

// selectedFriend returns the friend the messages pane is showing.
func (m Model) selectedFriend() (schedule.Friend, bool) {
	friends := m.store.Friends()
	if len(friends) == 0 {
		return schedule.Friend{}, false
	}
	if m.friendIndex >= len(friends) {
		return friends[0], true
	}
	return friends[m.friendIndex], true
}
