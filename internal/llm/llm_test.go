package llm

import (
	"errors"
	"strings"
	"testing"

	"signal-analyzer/internal/domain"
)

func TestTiersForMode(t *testing.T) {
	tiers := DefaultTiers()
	if tiers.For(domain.ModeFast).Model != DefaultFastModel {
		t.Fatalf("unexpected fast tier: %+v", tiers.For(domain.ModeFast))
	}
	if tiers.For(domain.ModeDeep).Model != DefaultDeepModel {
		t.Fatalf("unexpected deep tier: %+v", tiers.For(domain.ModeDeep))
	}
	if tiers.Deep.ThinkingBudget <= tiers.Fast.ThinkingBudget {
		t.Fatalf("deep budget must exceed fast budget: %+v", tiers)
	}
}

func TestSplitTranscript(t *testing.T) {
	transcript := []domain.ChatMessage{
		{Role: domain.RoleModel, Content: "Olá!"},
		{Role: domain.RoleUser, Content: "o que é RSI?"},
	}
	history, last, err := SplitTranscript(transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].Content != "Olá!" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if last.Content != "o que é RSI?" {
		t.Fatalf("unexpected last turn: %+v", last)
	}

	if _, _, err := SplitTranscript(nil); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
	if _, _, err := SplitTranscript(transcript[:1]); !errors.Is(err, ErrLastTurnNotUser) {
		t.Fatalf("expected ErrLastTurnNotUser, got %v", err)
	}
}

func TestDedupeSources(t *testing.T) {
	got := DedupeSources([]domain.Source{
		{URI: "https://a.example", Title: "A"},
		{URI: ""},
		{URI: "https://b.example"},
		{URI: "https://a.example", Title: "A again"},
	})
	if len(got) != 2 || got[0].Title != "A" || got[1].URI != "https://b.example" {
		t.Fatalf("unexpected sources: %+v", got)
	}
}

func TestNewsPromptMentionsAsset(t *testing.T) {
	if !strings.Contains(NewsPrompt("EUR/USD"), "EUR/USD") {
		t.Fatal("expected asset in news prompt")
	}
}

func TestAnalysisJSONSchemaEnums(t *testing.T) {
	schema := AnalysisJSONSchema()
	props := schema["properties"].(map[string]any)
	signal := props["signal"].(map[string]any)
	values := signal["enum"].([]string)
	if strings.Join(values, ",") != "CALL,PUT,WAIT" {
		t.Fatalf("unexpected signal enum: %v", values)
	}
	confidence := props["confidence"].(map[string]any)
	if strings.Join(confidence["enum"].([]string), ",") != "High,Medium,Low" {
		t.Fatalf("unexpected confidence enum: %v", confidence["enum"])
	}
}
