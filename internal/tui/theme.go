package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Tab bar styles
	TabStyle       = lipgloss.NewStyle().Padding(0, 2)
	ActiveTabStyle = TabStyle.Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#0891B2"))
	InactiveTabStyle = TabStyle.
				Foreground(lipgloss.Color("#888888"))

	// Signal colors
	SignalCallStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	SignalPutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	SignalWaitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308")).Bold(true)

	// Confidence colors
	ConfidenceHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	ConfidenceMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	ConfidenceLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))

	// General styles
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	SubtextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	LinkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Underline(true)
	BorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FCA5A5")).
			Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#B91C1C"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FDBA74"))
	SpinnerColor = lipgloss.Color("#0891B2")

	// Chat styles
	UserMsgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE")).Bold(true)
	AssistantMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true)
)
