package llm

import "signal-analyzer/internal/domain"

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func enumProp(desc string, values []string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

// SignalValues returns the signal enumeration as strings.
func SignalValues() []string {
	out := make([]string, 0, len(domain.Signals))
	for _, s := range domain.Signals {
		out = append(out, string(s))
	}
	return out
}

// ConfidenceValues returns the confidence enumeration as strings.
func ConfidenceValues() []string {
	out := make([]string, 0, len(domain.Confidences))
	for _, c := range domain.Confidences {
		out = append(out, string(c))
	}
	return out
}

// AnalysisJSONSchema is the AnalysisResult shape as a JSON Schema document,
// in the strict form accepted by structured-output APIs.
func AnalysisJSONSchema() map[string]any {
	justification := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":                stringProp(DescSummary),
			"supportResistance":      stringProp(DescSupportResistance),
			"candlesticks":           stringProp(DescCandlesticks),
			"bollingerBands":         stringProp(DescBollingerBands),
			"oscillator":             stringProp(DescOscillator),
			"volume":                 stringProp(DescVolume),
			"multiTimeframeAnalysis": stringProp(DescMultiTimeframeAnalysis),
		},
		"required":             JustificationRequired,
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"asset":               stringProp(DescAsset),
			"candleTimeRemaining": stringProp(DescCandleTimeRemaining),
			"signal":              enumProp(DescSignal, SignalValues()),
			"confidence":          enumProp(DescConfidence, ConfidenceValues()),
			"justification":       justification,
		},
		"required":             AnalysisRequired,
		"additionalProperties": false,
	}
}
