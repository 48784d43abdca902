package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports model output that is not a well-formed AnalysisResult.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response format: invalid analysis json: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseAnalysisResult decodes model output into an AnalysisResult and
// validates the enumerated fields. A response that fails validation is an
// error, never a partial result.
func ParseAnalysisResult(raw string) (*AnalysisResult, error) {
	text := stripCodeFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("empty response")}
	}

	var out AnalysisResult
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if !out.Signal.IsValid() {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("signal %q not one of CALL, PUT, WAIT", out.Signal)}
	}
	if !out.Confidence.IsValid() {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("confidence %q not one of High, Medium, Low", out.Confidence)}
	}
	out.Asset = strings.TrimSpace(out.Asset)
	return &out, nil
}

// stripCodeFence removes a surrounding markdown ``` block some models emit
// even when asked for raw JSON.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
