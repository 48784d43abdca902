package llm

import "signal-analyzer/internal/domain"

const (
	DefaultFastModel          = "gemini-2.5-flash"
	DefaultDeepModel          = "gemini-2.5-pro"
	DefaultNewsModel          = "gemini-2.5-flash"
	DefaultChatModel          = "gemini-2.5-flash"
	DefaultFastThinkingBudget = 12288
	DefaultDeepThinkingBudget = 32768
)

// Tier is one model configuration used for chart analysis.
type Tier struct {
	Model          string
	ThinkingBudget int32
}

// Tiers maps analysis modes to model tiers. Deep must think harder than fast.
type Tiers struct {
	Fast Tier
	Deep Tier
}

func DefaultTiers() Tiers {
	return Tiers{
		Fast: Tier{Model: DefaultFastModel, ThinkingBudget: DefaultFastThinkingBudget},
		Deep: Tier{Model: DefaultDeepModel, ThinkingBudget: DefaultDeepThinkingBudget},
	}
}

// For returns the tier for mode; unknown modes use the fast tier.
func (t Tiers) For(mode domain.AnalysisMode) Tier {
	if mode.IsDeep() {
		return t.Deep
	}
	return t.Fast
}
