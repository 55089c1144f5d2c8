package tui

import (
	"fmt"
	"strings"
	"time"

	assistant "github.com/aldenmarch/voicecal/core"
	"github.com/aldenmarch/voicecal/core/actions"
	"github.com/aldenmarch/voicecal/core/dispatch"
	"github.com/aldenmarch/voicecal/core/schedule"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var sections []string
	sections = append(sections, m.headerView())

	columnWidth := m.width/2 - 2
	if columnWidth < 20 {
		columnWidth = 20
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.calendarView(columnWidth),
		m.friendsView(columnWidth),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.conversationView(columnWidth),
		m.messagesView(columnWidth),
	)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, right))

	sections = append(sections, m.inputView())
	sections = append(sections, m.statusView())
	if m.showHelp {
		sections = append(sections, m.helpView.FullHelpView(m.keys.FullHelp()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	state := m.theme.StateIdle.Render("idle")
	switch m.state {
	case assistant.StateListening:
		state = m.theme.StateListening.Render("● listening")
	case assistant.StateProcessing:
		state = m.theme.StateProcessing.Render("● processing")
	}

	mute := ""
	if m.asst.IsMuted() {
		mute = "  " + m.theme.Muted.Render("muted")
	}

	return m.theme.Title.Render("voicecal") + "  " + state + mute
}

func (m Model) calendarView(width int) string {
	date := m.selectedDate.Format("2006-01-02")
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.selectedDate.Format("Mon, Jan 2 2006")) + "\n")
	b.WriteString(strings.TrimRight(m.monthGrid(), "\n") + "\n\n")

	events := m.store.EventsOn(date)
	if len(events) == 0 {
		b.WriteString(m.theme.StateIdle.Render("no events"))
	}
	for _, event := range events {
		style := m.theme.EventWork
		if event.Type == schedule.EventTypePersonal {
			style = m.theme.EventPersonal
		}
		b.WriteString(fmt.Sprintf("%s %s (%dmin)\n",
			m.theme.EventTime.Render(event.Time),
			style.Render(event.Title),
			event.Duration,
		))
	}

	return m.theme.PaneBorder.Width(width).Render(b.String())
}

// monthGrid renders the selected date's month with markers on days that
// hold events.
func (m Model) monthGrid() string {
	first := time.Date(m.selectedDate.Year(), m.selectedDate.Month(), 1, 0, 0, 0, 0, m.selectedDate.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	eventDays := make(map[string]bool)
	for _, event := range m.store.Events() {
		eventDays[event.Date] = true
	}

	var b strings.Builder
	b.WriteString(m.theme.DayHeading.Render("Su Mo Tu We Th Fr Sa") + "\n")
	b.WriteString(strings.Repeat("   ", int(first.Weekday())))
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())

		style := m.theme.DayDefault
		if eventDays[date.Format("2006-01-02")] {
			style = m.theme.DayWithMark
		}
		if day == m.selectedDate.Day() {
			style = m.theme.DaySelected
		}
		b.WriteString(style.Render(fmt.Sprintf("%2d", day)))

		if date.Weekday() == time.Saturday {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m Model) friendsView(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Friends") + "\n")

	friends := m.store.Friends()
	unread := m.unreadCounts()
	for index, friend := range friends {
		marker := "  "
		if index == m.friendIndex {
			marker = "> "
		}

		presence := m.theme.Offline.Render("○")
		if friend.Status == schedule.PresenceOnline {
			presence = m.theme.Online.Render("●")
		}

		line := marker + presence + " " + friend.Name
		if count := unread[friend.ID]; count > 0 {
			line += " " + m.theme.Unread.Render(fmt.Sprintf("(%d)", count))
		}
		b.WriteString(line + "\n")
	}

	return m.theme.PaneBorder.Width(width).Render(b.String())
}

func (m Model) conversationView(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Assistant") + "\n")

	turns := m.turns
	if len(turns) > conversationTail {
		turns = turns[len(turns)-conversationTail:]
	}
	for _, turn := range turns {
		style := m.theme.UserTurn
		prefix := "you: "
		if turn.Role == assistant.RoleAssistant {
			style = m.theme.AssistantTurn
			prefix = "assistant: "
		}
		b.WriteString(style.Render(wordwrap.String(prefix+turn.Content, width-4)) + "\n")
		if turn.Role == assistant.RoleAssistant && turn.ActionTag != "" && turn.ActionTag != actions.TagRespond {
			badge := strings.ReplaceAll(string(turn.ActionTag), "_", " ")
			b.WriteString(m.theme.ActionBadge.Render("  · "+badge) + "\n")
		}
	}

	if m.interim != "" {
		b.WriteString(m.theme.Interim.Render(wordwrap.String(m.interim, width-4)) + "\n")
	}

	return m.theme.PaneBorder.Width(width).Render(b.String())
}

func (m Model) messagesView(width int) string {
	var b strings.Builder

	friend, ok := m.selectedFriend()
	if !ok {
		b.WriteString(m.theme.Title.Render("Messages"))
		return m.theme.PaneBorder.Width(width).Render(b.String())
	}

	b.WriteString(m.theme.Title.Render("Messages · "+friend.Name) + "\n")
	for _, message := range m.store.Messages() {
		if message.SenderID != friend.ID && message.ReceiverID != friend.ID {
			continue
		}

		prefix := friend.Name + ": "
		style := m.theme.AssistantTurn
		if message.SenderID == schedule.LocalUserID {
			prefix = "me: "
			style = m.theme.UserTurn
		}
		b.WriteString(style.Render(wordwrap.String(prefix+message.Content, width-4)) + "\n")
	}

	return m.theme.PaneBorder.Width(width).Render(b.String())
}

func (m Model) inputView() string {
	if m.focus == FocusCommand {
		return m.theme.FocusedPane.Width(m.width - 2).Render(m.input.View())
	}
	return m.theme.PaneBorder.Width(m.width - 2).Render(m.input.View())
}

func (m Model) statusView() string {
	if m.statusError != "" {
		return m.theme.NoticeWarn.Render(m.statusError)
	}
	if m.notice != nil {
		style := m.theme.NoticeInfo
		switch m.notice.level {
		case dispatch.LevelSuccess:
			style = m.theme.NoticeSuccess
		case dispatch.LevelWarn:
			style = m.theme.NoticeWarn
		}
		return style.Render(m.notice.title + ": " + m.notice.detail)
	}
	return m.theme.StatusBar.Render(m.helpView.ShortHelpView(m.keys.ShortHelp()))
}

// unreadCounts tallies unread messages per friend thread.
func (m Model) unreadCounts() map[string]int {
	counts := make(map[string]int)
	for _, message := range m.store.Messages() {
		if !message.IsRead && message.ReceiverID == schedule.LocalUserID {
			counts[message.SenderID]++
		}
	}
	return counts
}
