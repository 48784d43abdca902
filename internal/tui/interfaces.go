package tui

import (
	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/imageinput"
	"signal-analyzer/internal/llm"

	"github.com/rs/zerolog"
)

// Services bundles the dependencies injected into the TUI.
type Services struct {
	Analyzer llm.Analyzer
	News     llm.NewsFetcher
	Chat     llm.Chatter
	Logger   zerolog.Logger

	// LoadImage reads a chart from disk; defaults to imageinput.Load.
	LoadImage func(path string) (domain.Image, error)
	// StartDir is where the file picker opens.
	StartDir string
}

// NewServices wires all three capabilities from one backend.
func NewServices(provider llm.Provider, logger zerolog.Logger) Services {
	return Services{
		Analyzer:  provider,
		News:      provider,
		Chat:      provider,
		Logger:    logger,
		LoadImage: imageinput.Load,
	}
}

func (s Services) loadImage(path string) (domain.Image, error) {
	if s.LoadImage == nil {
		return imageinput.Load(path)
	}
	return s.LoadImage(path)
}
