package tui

import (
	"fmt"
	"strings"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/imageinput"
	"signal-analyzer/internal/workflow"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Intent messages emitted by the analyzer screen and handled by AppModel.
type imageSelectedMsg struct{ path string }
type startAnalysisMsg struct{ mode domain.AnalysisMode }

// AnalyzerModel is the chart upload and analysis screen.
type AnalyzerModel struct {
	picker   filepicker.Model
	viewport viewport.Model
	spinner  spinner.Model
	picking  bool
	state    workflow.State
	loadErr  string
	width    int
	height   int
	ready    bool
}

// NewAnalyzerModel creates the analyzer screen with the file picker open.
func NewAnalyzerModel(startDir string) AnalyzerModel {
	fp := filepicker.New()
	fp.AllowedTypes = imageinput.Extensions
	if startDir != "" {
		fp.CurrentDirectory = startDir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return AnalyzerModel{
		picker:  fp,
		spinner: sp,
		picking: true,
		state:   workflow.NewState(),
	}
}

func (m AnalyzerModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m AnalyzerModel) Update(msg tea.Msg) (AnalyzerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			if key.Matches(msg, DefaultKeyMap.ClosePicker) && m.state.Image != nil {
				m.picking = false
				return m, nil
			}
			return m.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, DefaultKeyMap.OpenPicker):
			if m.state.AnalysisLoading {
				return m, nil
			}
			m.picking = true
			return m, m.picker.Init()
		case key.Matches(msg, DefaultKeyMap.FastAnalysis):
			return m, m.requestAnalysis(domain.ModeFast)
		case key.Matches(msg, DefaultKeyMap.DeepAnalysis):
			return m, m.requestAnalysis(domain.ModeDeep)
		}

	case spinner.TickMsg:
		if m.state.AnalysisLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.updatePicker(msg)

	default:
		// Directory listings and other picker-internal messages.
		return m.updatePicker(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m AnalyzerModel) updatePicker(msg tea.Msg) (AnalyzerModel, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.loadErr = ""
		path := path
		return m, tea.Batch(cmd, func() tea.Msg { return imageSelectedMsg{path: path} })
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.loadErr = fmt.Sprintf("%s: %s", path, workflow.MsgInvalidInput)
		return m, cmd
	}
	return m, cmd
}

// requestAnalysis mirrors the disabled buttons of a busy cycle: nothing is
// sent while an analysis is running.
func (m AnalyzerModel) requestAnalysis(mode domain.AnalysisMode) tea.Cmd {
	if m.state.AnalysisLoading {
		return nil
	}
	return tea.Batch(
		func() tea.Msg { return startAnalysisMsg{mode: mode} },
		m.spinner.Tick,
	)
}

// SetState refreshes the screen from the session state.
func (m *AnalyzerModel) SetState(st workflow.State) {
	m.state = st
	if m.ready {
		m.viewport.SetContent(m.renderBody())
	}
}

// SetLoadError shows an image that could not be read.
func (m *AnalyzerModel) SetLoadError(msg string) {
	m.loadErr = msg
	m.picking = true
}

func (m AnalyzerModel) View() string {
	sections := []string{
		TitleStyle.Render("  Quotex Signal Analyzer AI"),
		SubtextStyle.Render("  Carregue um gráfico. Obtenha sinais com tecnologia de IA."),
		"",
	}

	if m.loadErr != "" {
		sections = append(sections, ErrorStyle.Render(m.loadErr))
	}

	if m.picking {
		sections = append(sections,
			HeaderStyle.Render("  Selecione um gráfico (PNG, JPG, WEBP):"),
			m.picker.View(),
		)
		if m.state.Image != nil {
			sections = append(sections, SubtextStyle.Render("  esc: voltar"))
		}
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, "  "+HeaderStyle.Render("Imagem: ")+m.state.ImageName)
	if m.state.AnalysisLoading {
		sections = append(sections, fmt.Sprintf("  %s %s", m.spinner.View(), m.loadingText()))
	} else {
		sections = append(sections, SubtextStyle.Render("  f: Análise Rápida • d: Análise Aprofundada (Pro) • o: outra imagem"))
	}
	if m.state.Error != "" {
		sections = append(sections, ErrorStyle.Render(m.state.Error))
	}

	if !m.ready {
		m.initViewport()
	}
	sections = append(sections, "", m.viewport.View(), "", RenderDisclaimer(m.width-2))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the model dimensions.
func (m *AnalyzerModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.ready = false
}

// IsPicking reports whether the file picker is shown (for testing).
func (m AnalyzerModel) IsPicking() bool { return m.picking }

func (m AnalyzerModel) loadingText() string {
	if m.state.NewsLoading {
		return "Buscando as últimas notícias do mercado..."
	}
	return "Analisando gráfico com IA... Isso pode levar um momento."
}

func (m *AnalyzerModel) initViewport() {
	vpHeight := m.height - 10
	if vpHeight < 5 {
		vpHeight = 5
	}
	vpWidth := m.width - 2
	if vpWidth < 20 {
		vpWidth = 20
	}
	m.viewport = viewport.New(vpWidth, vpHeight)
	m.viewport.SetContent(m.renderBody())
	m.ready = true
}

func (m AnalyzerModel) renderBody() string {
	width := m.width - 4
	var parts []string
	if m.state.Result != nil {
		parts = append(parts, RenderResult(m.state.Result, width))
	}
	if m.state.News != nil {
		parts = append(parts, "", RenderNews(m.state.News, width))
	}
	if m.state.NewsError != "" {
		parts = append(parts, "", WarnStyle.Render(wrap("Notícias indisponíveis: "+m.state.NewsError, width)))
	}
	if len(parts) == 0 {
		return SubtextStyle.Render("Nenhuma análise ainda.")
	}
	return strings.Join(parts, "\n")
}
