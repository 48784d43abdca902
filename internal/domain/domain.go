package domain

import "strings"

type Signal string

const (
	SignalCall Signal = "CALL"
	SignalPut  Signal = "PUT"
	SignalWait Signal = "WAIT"
)

// Signals lists the accepted signal values in schema order.
var Signals = []Signal{SignalCall, SignalPut, SignalWait}

func (s Signal) IsValid() bool {
	switch s {
	case SignalCall, SignalPut, SignalWait:
		return true
	}
	return false
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Confidences lists the accepted confidence values in schema order.
var Confidences = []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}

func (c Confidence) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

type Justification struct {
	Summary                string `json:"summary"`
	SupportResistance      string `json:"supportResistance"`
	Candlesticks           string `json:"candlesticks"`
	BollingerBands         string `json:"bollingerBands"`
	Oscillator             string `json:"oscillator"`
	Volume                 string `json:"volume"`
	MultiTimeframeAnalysis string `json:"multiTimeframeAnalysis"`
}

// JustificationSection is one labelled, non-blank part of a Justification.
type JustificationSection struct {
	Title string
	Text  string
}

// Sections returns the non-blank justification fields in display order.
func (j Justification) Sections() []JustificationSection {
	all := []JustificationSection{
		{Title: "Resumo", Text: j.Summary},
		{Title: "Análise Multi-Timeframe", Text: j.MultiTimeframeAnalysis},
		{Title: "Suporte e Resistência", Text: j.SupportResistance},
		{Title: "Padrões de Candlestick", Text: j.Candlesticks},
		{Title: "Bandas de Bollinger", Text: j.BollingerBands},
		{Title: "Oscilador", Text: j.Oscillator},
		{Title: "Volume", Text: j.Volume},
	}
	out := make([]JustificationSection, 0, len(all))
	for _, s := range all {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

type AnalysisResult struct {
	Asset               string        `json:"asset"`
	CandleTimeRemaining string        `json:"candleTimeRemaining"`
	Signal              Signal        `json:"signal"`
	Confidence          Confidence    `json:"confidence"`
	Justification       Justification `json:"justification"`
}

// HasAsset reports whether the model identified a tradeable instrument.
func (r AnalysisResult) HasAsset() bool {
	return strings.TrimSpace(r.Asset) != ""
}

// Source is a web citation the model used to ground a news answer.
type Source struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

type NewsResult struct {
	News    string   `json:"news"`
	Sources []Source `json:"sources"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AnalysisMode selects the model tier used for chart analysis.
type AnalysisMode string

const (
	ModeFast AnalysisMode = "fast"
	ModeDeep AnalysisMode = "deep"
)

func (m AnalysisMode) IsDeep() bool { return m == ModeDeep }

func (m AnalysisMode) IsValid() bool {
	return m == ModeFast || m == ModeDeep
}

// Image is an uploaded chart screenshot.
type Image struct {
	Name     string
	MimeType string
	Data     []byte
}

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeWEBP = "image/webp"
)

// SupportedImageTypes lists the media types accepted for analysis.
var SupportedImageTypes = []string{MimePNG, MimeJPEG, MimeWEBP}
