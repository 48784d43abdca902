package tui

import (
	"fmt"
	"strings"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/workflow"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Intent messages emitted by the chat screen.
type sendChatMsg struct{ text string }
type resetChatMsg struct{}

// ChatModel is the Bubble Tea model for the trading assistant screen.
type ChatModel struct {
	transcript []domain.ChatMessage
	input      textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model
	waiting    bool
	width      int
	height     int
	ready      bool
}

// NewChatModel creates a new chat model.
func NewChatModel() ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Faça uma pergunta sobre negociação..."
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return ChatModel{
		transcript: workflow.NewState().Transcript,
		input:      ti,
		spinner:    sp,
	}
}

// Init initializes the chat model.
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.ResetChat):
			m.input.SetValue("")
			return m, func() tea.Msg { return resetChatMsg{} }
		case key.Matches(msg, DefaultKeyMap.Send) && !m.waiting:
			text := m.input.Value()
			if strings.TrimSpace(text) != "" {
				m.input.SetValue("")
				return m, tea.Batch(
					func() tea.Msg { return sendChatMsg{text: text} },
					m.spinner.Tick,
				)
			}
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Update text input
	if !m.waiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// SetState refreshes the transcript from the session state.
func (m *ChatModel) SetState(st workflow.State) {
	m.transcript = st.Transcript
	m.waiting = st.ChatLoading
	if m.ready {
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
	}
}

// View renders the chat screen.
func (m ChatModel) View() string {
	var sections []string

	sections = append(sections, HeaderStyle.Render("  Assistente de Chat"))
	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", max(m.width-2, 0))))

	// Message viewport
	if !m.ready {
		m.initViewport()
	}
	sections = append(sections, m.viewport.View())

	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", max(m.width-2, 0))))

	// Input bar
	if m.waiting {
		sections = append(sections, fmt.Sprintf("  %s Pensando...", m.spinner.View()))
	} else {
		sections = append(sections, "  "+m.input.View())
		sections = append(sections, SubtextStyle.Render("  enter: enviar • ctrl+r: nova conversa"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the model dimensions.
func (m *ChatModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 6
	m.ready = false // re-initialize viewport on next View
}

// Focus gives focus to the text input.
func (m *ChatModel) Focus() {
	m.input.Focus()
}

// Blur removes focus from the text input.
func (m *ChatModel) Blur() {
	m.input.Blur()
}

// IsWaiting returns whether the model is waiting for a response (for testing).
func (m ChatModel) IsWaiting() bool { return m.waiting }

// MessageCount returns the number of messages (for testing).
func (m ChatModel) MessageCount() int { return len(m.transcript) }

func (m *ChatModel) initViewport() {
	vpHeight := m.height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := m.width - 2
	if vpWidth < 10 {
		vpWidth = 10
	}
	m.viewport = viewport.New(vpWidth, vpHeight)
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
	m.ready = true
}

func (m ChatModel) renderMessages() string {
	width := m.width - 12
	var lines []string
	for _, msg := range m.transcript {
		switch msg.Role {
		case domain.RoleUser:
			lines = append(lines, "  "+UserMsgStyle.Render("Você:"))
		default:
			lines = append(lines, "  "+AssistantMsgStyle.Render("Assistente:"))
		}
		for _, line := range strings.Split(wrap(msg.Content, width), "\n") {
			lines = append(lines, "    "+line)
		}
		lines = append(lines, "")
	}

	if m.waiting {
		lines = append(lines, "  "+SubtextStyle.Render("Assistente está pensando..."))
	}

	return strings.Join(lines, "\n")
}
