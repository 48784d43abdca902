package llm

import (
	"context"
	"errors"

	"signal-analyzer/internal/domain"
)

// Analyzer sends a chart image to the model and returns a structured signal.
type Analyzer interface {
	Analyze(ctx context.Context, image domain.Image, mode domain.AnalysisMode) (*domain.AnalysisResult, error)
}

// NewsFetcher asks a search-grounded model for current context on an asset.
type NewsFetcher interface {
	FetchNews(ctx context.Context, asset string) (*domain.NewsResult, error)
}

// Chatter continues a conversation from its transcript.
type Chatter interface {
	ContinueChat(ctx context.Context, transcript []domain.ChatMessage) (string, error)
}

// Provider bundles the three capabilities of one model backend.
type Provider interface {
	Analyzer
	NewsFetcher
	Chatter
}

var (
	ErrEmptyAsset      = errors.New("asset is required")
	ErrEmptyTranscript = errors.New("chat transcript is empty")
	ErrLastTurnNotUser = errors.New("last chat turn must come from the user")
	ErrEmptyImage      = errors.New("image is empty")
	ErrSafetyBlocked   = errors.New("response blocked by safety filters")
)

// SplitTranscript separates the prior turns from the newest user turn.
func SplitTranscript(transcript []domain.ChatMessage) ([]domain.ChatMessage, domain.ChatMessage, error) {
	if len(transcript) == 0 {
		return nil, domain.ChatMessage{}, ErrEmptyTranscript
	}
	last := transcript[len(transcript)-1]
	if last.Role != domain.RoleUser {
		return nil, domain.ChatMessage{}, ErrLastTurnNotUser
	}
	return transcript[:len(transcript)-1], last, nil
}

// DedupeSources drops sources without a URI and repeated URIs, keeping order.
func DedupeSources(sources []domain.Source) []domain.Source {
	out := make([]domain.Source, 0, len(sources))
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if s.URI == "" {
			continue
		}
		if _, ok := seen[s.URI]; ok {
			continue
		}
		seen[s.URI] = struct{}{}
		out = append(out, s)
	}
	return out
}
