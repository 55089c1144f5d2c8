package tui

import "github.com/charmbracelet/lipgloss"

// Theme collects the lipgloss styles used by the view.
type Theme struct {
	Title       lipgloss.Style
	PaneBorder  lipgloss.Style
	FocusedPane lipgloss.Style

	EventTime     lipgloss.Style
	EventWork     lipgloss.Style
	EventPersonal lipgloss.Style

	Online  lipgloss.Style
	Offline lipgloss.Style
	Unread  lipgloss.Style

	DayHeading  lipgloss.Style
	DayDefault  lipgloss.Style
	DaySelected lipgloss.Style
	DayWithMark lipgloss.Style

	UserTurn      lipgloss.Style
	AssistantTurn lipgloss.Style
	ActionBadge   lipgloss.Style
	Interim       lipgloss.Style

	StateIdle       lipgloss.Style
	StateListening  lipgloss.Style
	StateProcessing lipgloss.Style
	Muted           lipgloss.Style

	NoticeSuccess lipgloss.Style
	NoticeInfo    lipgloss.Style
	NoticeWarn    lipgloss.Style

	StatusBar lipgloss.Style
}

var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	PaneBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),
	FocusedPane: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")),

	EventTime:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	EventWork:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	EventPersonal: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),

	Online:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	Offline: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Unread:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),

	DayHeading:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	DayDefault:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	DaySelected: lipgloss.NewStyle().Reverse(true),
	DayWithMark: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),

	UserTurn:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	AssistantTurn: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	ActionBadge:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	Interim:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),

	StateIdle:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	StateListening:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	StateProcessing: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	Muted:           lipgloss.NewStyle().Foreground(lipgloss.Color("9")),

	NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	NoticeWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),

	StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}
