package gemini

import (
	"signal-analyzer/internal/llm"

	"google.golang.org/genai"
)

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

// analysisSchema mirrors llm.AnalysisJSONSchema in the Gemini schema dialect.
// PropertyOrdering keeps the model emitting fields in reading order.
func analysisSchema() *genai.Schema {
	justification := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":                str(llm.DescSummary),
			"supportResistance":      str(llm.DescSupportResistance),
			"candlesticks":           str(llm.DescCandlesticks),
			"bollingerBands":         str(llm.DescBollingerBands),
			"oscillator":             str(llm.DescOscillator),
			"volume":                 str(llm.DescVolume),
			"multiTimeframeAnalysis": str(llm.DescMultiTimeframeAnalysis),
		},
		Required:         llm.JustificationRequired,
		PropertyOrdering: llm.JustificationRequired,
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"asset":               str(llm.DescAsset),
			"candleTimeRemaining": str(llm.DescCandleTimeRemaining),
			"signal": {
				Type:        genai.TypeString,
				Description: llm.DescSignal,
				Enum:        llm.SignalValues(),
			},
			"confidence": {
				Type:        genai.TypeString,
				Description: llm.DescConfidence,
				Enum:        llm.ConfidenceValues(),
			},
			"justification": justification,
		},
		Required:         llm.AnalysisRequired,
		PropertyOrdering: llm.AnalysisRequired,
	}
}
