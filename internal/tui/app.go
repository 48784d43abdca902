package tui

import (
	"context"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/workflow"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a screen tab in the TUI.
type Tab int

const (
	TabAnalyzer Tab = iota
	TabChat
)

var tabNames = []string{"1:Analisador", "2:Assistente de Chat"}

// Completion messages carrying model results back into the update loop.
type imageLoadedMsg struct{ image domain.Image }
type imageErrMsg struct{ err error }
type analysisDoneMsg struct {
	gen    uint64
	result *domain.AnalysisResult
	err    error
}
type newsDoneMsg struct {
	gen  uint64
	news *domain.NewsResult
	err  error
}
type chatReplyMsg struct {
	gen   uint64
	reply string
	err   error
}

// AppModel is the root Bubble Tea model. It owns the session state and
// turns the screens' intents into workflow transitions and model calls.
type AppModel struct {
	services  Services
	state     workflow.State
	activeTab Tab
	analyzer  AnalyzerModel
	chat      ChatModel
	width     int
	height    int
	quitting  bool
}

// NewAppModel creates the root application model with all child screens.
func NewAppModel(svc Services) AppModel {
	m := AppModel{
		services:  svc,
		state:     workflow.NewState(),
		activeTab: TabAnalyzer,
		analyzer:  NewAnalyzerModel(svc.StartDir),
		chat:      NewChatModel(),
	}
	m.sync()
	return m
}

// WithImage returns the model with an image already loaded, skipping the
// file picker.
func (m AppModel) WithImage(img domain.Image) AppModel {
	m.state = m.state.Upload(img)
	m.analyzer.picking = false
	m.sync()
	return m
}

// Init initializes all child models.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.analyzer.Init(),
		m.chat.Init(),
	)
}

// Update handles incoming messages, routing to the active tab.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
		var cmd tea.Cmd
		m.analyzer, cmd = m.analyzer.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if handled, next, cmd := m.handleGlobalKey(msg); handled {
			return next, cmd
		}

	case imageSelectedMsg:
		return m, m.loadImageCmd(msg.path)

	case imageLoadedMsg:
		m.state = m.state.Upload(msg.image)
		m.analyzer.loadErr = ""
		m.sync()
		return m, nil

	case imageErrMsg:
		m.services.Logger.Warn().Err(msg.err).Msg("image rejected")
		m.analyzer.SetLoadError(workflow.Classify(msg.err))
		return m, m.analyzer.picker.Init()

	case startAnalysisMsg:
		var req *workflow.AnalysisRequest
		m.state, req = m.state.StartAnalysis(msg.mode)
		m.sync()
		if req == nil {
			return m, nil
		}
		return m, m.analyzeCmd(req)

	case analysisDoneMsg:
		var req *workflow.NewsRequest
		m.state, req = m.state.FinishAnalysis(msg.gen, msg.result, msg.err)
		m.sync()
		if req == nil {
			return m, nil
		}
		return m, m.newsCmd(req)

	case newsDoneMsg:
		m.state = m.state.FinishNews(msg.gen, msg.news, msg.err)
		m.sync()
		return m, nil

	case sendChatMsg:
		var req *workflow.ChatRequest
		m.state, req = m.state.SetChatInput(msg.text).SendChat()
		m.sync()
		if req == nil {
			return m, nil
		}
		return m, m.chatCmd(req)

	case chatReplyMsg:
		m.state = m.state.FinishChat(msg.gen, msg.reply, msg.err)
		m.sync()
		return m, nil

	case resetChatMsg:
		m.state = m.state.ResetChat()
		m.sync()
		return m, nil
	}

	var cmds []tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); isKey {
		// Keyboard input goes to the active tab only.
		switch m.activeTab {
		case TabAnalyzer:
			var cmd tea.Cmd
			m.analyzer, cmd = m.analyzer.Update(msg)
			cmds = append(cmds, cmd)
		case TabChat:
			var cmd tea.Cmd
			m.chat, cmd = m.chat.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Spinner ticks, cursor blinks and directory listings go to both
	// screens; each ignores what it does not own.
	var cmd tea.Cmd
	m.analyzer, cmd = m.analyzer.Update(msg)
	cmds = append(cmds, cmd)
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m AppModel) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	inChat := m.activeTab == TabChat

	switch {
	case msg.String() == "ctrl+c":
		m.quitting = true
		return true, m, tea.Quit
	case key.Matches(msg, DefaultKeyMap.Quit) && !inChat:
		m.quitting = true
		return true, m, tea.Quit
	case key.Matches(msg, DefaultKeyMap.Tab):
		m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))
		return true, m, nil
	case key.Matches(msg, DefaultKeyMap.ShiftTab):
		next := int(m.activeTab) - 1
		if next < 0 {
			next = len(tabNames) - 1
		}
		m.switchTab(Tab(next))
		return true, m, nil
	case msg.String() == "1" && !inChat:
		m.switchTab(TabAnalyzer)
		return true, m, nil
	case msg.String() == "2" && !inChat:
		m.switchTab(TabChat)
		return true, m, nil
	}
	return false, m, nil
}

// View renders the tab bar and active screen.
func (m AppModel) View() string {
	if m.quitting {
		return "Até logo!\n"
	}

	tabBar := m.renderTabBar()

	var content string
	switch m.activeTab {
	case TabAnalyzer:
		content = m.analyzer.View()
	case TabChat:
		content = m.chat.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content)
}

// SetSize updates dimensions on the root model and propagates to children.
func (m *AppModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.propagateSize()
}

// ActiveTab returns the currently active tab (for testing).
func (m AppModel) ActiveTab() Tab { return m.activeTab }

// State returns the session state (for testing).
func (m AppModel) State() workflow.State { return m.state }

func (m *AppModel) switchTab(tab Tab) {
	if tab == TabChat && m.activeTab != TabChat {
		m.chat.Focus()
	} else if m.activeTab == TabChat && tab != TabChat {
		m.chat.Blur()
	}
	m.activeTab = tab
	m.sync()
}

// sync pushes the session state into both screens.
func (m *AppModel) sync() {
	view := workflow.ViewAnalyzer
	if m.activeTab == TabChat {
		view = workflow.ViewChat
	}
	m.state = m.state.SetView(view)
	m.analyzer.SetState(m.state)
	m.chat.SetState(m.state)
}

func (m *AppModel) propagateSize() {
	contentHeight := m.height - 2 // account for tab bar
	m.analyzer.SetSize(m.width, contentHeight)
	m.chat.SetSize(m.width, contentHeight)
}

func (m AppModel) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m AppModel) loadImageCmd(path string) tea.Cmd {
	svc := m.services
	return func() tea.Msg {
		img, err := svc.loadImage(path)
		if err != nil {
			return imageErrMsg{err: err}
		}
		return imageLoadedMsg{image: img}
	}
}

func (m AppModel) analyzeCmd(req *workflow.AnalysisRequest) tea.Cmd {
	analyzer := m.services.Analyzer
	return func() tea.Msg {
		result, err := analyzer.Analyze(context.Background(), req.Image, req.Mode)
		return analysisDoneMsg{gen: req.Generation, result: result, err: err}
	}
}

func (m AppModel) newsCmd(req *workflow.NewsRequest) tea.Cmd {
	news := m.services.News
	return func() tea.Msg {
		res, err := news.FetchNews(context.Background(), req.Asset)
		return newsDoneMsg{gen: req.Generation, news: res, err: err}
	}
}

func (m AppModel) chatCmd(req *workflow.ChatRequest) tea.Cmd {
	chat := m.services.Chat
	logger := m.services.Logger
	return func() tea.Msg {
		reply, err := chat.ContinueChat(context.Background(), req.Transcript)
		if err != nil {
			logger.Error().Err(err).Str("request_id", req.ID).Msg("chat reply failed")
		}
		return chatReplyMsg{gen: req.Generation, reply: reply, err: err}
	}
}
