package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestSignalIsValid(t *testing.T) {
	for _, s := range Signals {
		if !s.IsValid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if Signal("BUY").IsValid() || Signal("call").IsValid() || Signal("").IsValid() {
		t.Fatal("expected values outside CALL/PUT/WAIT to be invalid")
	}
}

func TestConfidenceIsValid(t *testing.T) {
	for _, c := range Confidences {
		if !c.IsValid() {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if Confidence("high").IsValid() || Confidence("Extreme").IsValid() {
		t.Fatal("expected values outside High/Medium/Low to be invalid")
	}
}

func TestAnalysisModeIsDeep(t *testing.T) {
	if !ModeDeep.IsDeep() || ModeFast.IsDeep() {
		t.Fatal("unexpected IsDeep result")
	}
	if AnalysisMode("turbo").IsValid() {
		t.Fatal("expected unknown mode to be invalid")
	}
}

func TestAnalysisResultRoundTrip(t *testing.T) {
	want := AnalysisResult{
		Asset:               "EUR/USD",
		CandleTimeRemaining: "00:42",
		Signal:              SignalPut,
		Confidence:          ConfidenceMedium,
		Justification: Justification{
			Summary:                "reversão na resistência",
			SupportResistance:      "1.0850 resistência",
			Candlesticks:           "estrela cadente",
			BollingerBands:         "toque na banda superior",
			Oscillator:             "RSI 74",
			Volume:                 "volume decrescente",
			MultiTimeframeAnalysis: "H1 lateral",
		},
	}
	body, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ParseAnalysisResult(string(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestParseAnalysisResultRejectsInvalidSignal(t *testing.T) {
	_, err := ParseAnalysisResult(`{"asset":"BTC/USD","signal":"BUY","confidence":"High","justification":{}}`)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseAnalysisResultRejectsInvalidConfidence(t *testing.T) {
	_, err := ParseAnalysisResult(`{"asset":"BTC/USD","signal":"CALL","confidence":"Certain","justification":{}}`)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseAnalysisResultMalformed(t *testing.T) {
	cases := []string{"", "   ", "not json", `{"asset":`, `["CALL"]`}
	for _, raw := range cases {
		if _, err := ParseAnalysisResult(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseAnalysisResultStripsFenceAndTrimsAsset(t *testing.T) {
	raw := "```json\n{\"asset\":\"  GBP/JPY OTC \",\"signal\":\"WAIT\",\"confidence\":\"Low\",\"justification\":{\"summary\":\"sem sinal\"}}\n```"
	got, err := ParseAnalysisResult(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Asset != "GBP/JPY OTC" || got.Signal != SignalWait || got.Justification.Summary != "sem sinal" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseErrorMessageMentionsFormat(t *testing.T) {
	_, err := ParseAnalysisResult("{")
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Raw != "{" || perr.Unwrap() == nil {
		t.Fatalf("unexpected parse error: %#v", err)
	}
}

func TestJustificationSectionsSkipsBlank(t *testing.T) {
	j := Justification{Summary: "alta", Volume: "   ", Oscillator: "RSI 30"}
	sections := j.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Text != "alta" || sections[1].Text != "RSI 30" {
		t.Fatalf("unexpected section order: %+v", sections)
	}
}

func TestAnalysisResultHasAsset(t *testing.T) {
	if (AnalysisResult{Asset: "  "}).HasAsset() {
		t.Fatal("blank asset should not count")
	}
	if !(AnalysisResult{Asset: "EUR/USD"}).HasAsset() {
		t.Fatal("expected asset to be detected")
	}
}
