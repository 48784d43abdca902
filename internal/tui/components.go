package tui

import (
	"fmt"
	"strings"

	"signal-analyzer/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

const Disclaimer = "Aviso Legal: Esta ferramenta destina-se apenas para fins educacionais e não constitui aconselhamento financeiro. Negociar envolve riscos."

// SignalLabel renders the signal with its direction word.
func SignalLabel(s domain.Signal) string {
	switch s {
	case domain.SignalCall:
		return SignalCallStyle.Render("▲ CALL (compra)")
	case domain.SignalPut:
		return SignalPutStyle.Render("▼ PUT (venda)")
	default:
		return SignalWaitStyle.Render("■ WAIT (aguardar)")
	}
}

func ConfidenceLabel(c domain.Confidence) string {
	switch c {
	case domain.ConfidenceHigh:
		return ConfidenceHighStyle.Render("Alta")
	case domain.ConfidenceMedium:
		return ConfidenceMedStyle.Render("Média")
	default:
		return ConfidenceLowStyle.Render("Baixa")
	}
}

// RenderResult renders the signal card and the non-blank justification
// sections, wrapped to width.
func RenderResult(r *domain.AnalysisResult, width int) string {
	if r == nil {
		return ""
	}
	asset := r.Asset
	if !r.HasAsset() {
		asset = "não identificado"
	}
	lines := []string{
		HeaderStyle.Render("Ativo: ") + asset,
		HeaderStyle.Render("Sinal: ") + SignalLabel(r.Signal),
		HeaderStyle.Render("Confiança: ") + ConfidenceLabel(r.Confidence),
	}
	if strings.TrimSpace(r.CandleTimeRemaining) != "" {
		lines = append(lines, HeaderStyle.Render("Tempo restante da vela: ")+r.CandleTimeRemaining)
	}
	card := BorderStyle.Padding(0, 1).Render(strings.Join(lines, "\n"))

	parts := []string{card}
	for _, section := range r.Justification.Sections() {
		parts = append(parts, "", SectionStyle.Render(section.Title), wrap(section.Text, width))
	}
	return strings.Join(parts, "\n")
}

// RenderNews renders the news text and its sources. A source without a
// title is shown by its URI.
func RenderNews(n *domain.NewsResult, width int) string {
	if n == nil {
		return ""
	}
	parts := []string{TitleStyle.Render("Contexto e Notícias do Mercado"), wrap(n.News, width)}
	if len(n.Sources) > 0 {
		parts = append(parts, "", SectionStyle.Render("Fontes"))
		for _, src := range n.Sources {
			label := src.Title
			if strings.TrimSpace(label) == "" {
				label = src.URI
			}
			parts = append(parts, fmt.Sprintf("• %s", label), "  "+LinkStyle.Render(src.URI))
		}
	}
	return strings.Join(parts, "\n")
}

func RenderDisclaimer(width int) string {
	return SubtextStyle.Render(wrap(Disclaimer, width))
}

func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
