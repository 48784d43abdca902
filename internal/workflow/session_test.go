package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"signal-analyzer/internal/domain"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type stubAnalyzer struct {
	mu     sync.Mutex
	result *domain.AnalysisResult
	err    error
	calls  int
	modes  []domain.AnalysisMode
	// hook runs inside the call, before returning.
	hook func()
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ domain.Image, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
	s.mu.Lock()
	s.calls++
	s.modes = append(s.modes, mode)
	hook := s.hook
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return s.result, s.err
}

type stubNews struct {
	news   *domain.NewsResult
	err    error
	calls  int
	assets []string
	hook   func()
}

func (s *stubNews) FetchNews(_ context.Context, asset string) (*domain.NewsResult, error) {
	s.calls++
	s.assets = append(s.assets, asset)
	if s.hook != nil {
		s.hook()
	}
	return s.news, s.err
}

type stubChat struct {
	reply       string
	err         error
	transcripts [][]domain.ChatMessage
}

func (s *stubChat) ContinueChat(_ context.Context, transcript []domain.ChatMessage) (string, error) {
	s.transcripts = append(s.transcripts, transcript)
	return s.reply, s.err
}

func newTestSession(a *stubAnalyzer, n *stubNews, c *stubChat) *Session {
	return NewSession(trace.NewNoopTracerProvider().Tracer("test"), zerolog.Nop(), a, n, c)
}

func TestSessionAnalyzeRequiresImage(t *testing.T) {
	analyzer := &stubAnalyzer{}
	sess := newTestSession(analyzer, &stubNews{}, &stubChat{})

	st, err := sess.Analyze(context.Background(), domain.ModeFast)
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected no image error, got %v", err)
	}
	if st.Error != MsgNoImage || analyzer.calls != 0 {
		t.Fatalf("unexpected state: %+v calls=%d", st, analyzer.calls)
	}
}

func TestSessionAnalyzeThenNews(t *testing.T) {
	analyzer := &stubAnalyzer{result: &domain.AnalysisResult{
		Asset:      "EUR/USD",
		Signal:     domain.SignalCall,
		Confidence: domain.ConfidenceHigh,
	}}
	news := &stubNews{news: &domain.NewsResult{News: "dólar fraco", Sources: []domain.Source{}}}
	sess := newTestSession(analyzer, news, &stubChat{})

	sess.Upload(chartImage())
	st, err := sess.Analyze(context.Background(), domain.ModeDeep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analyzer.modes[0] != domain.ModeDeep {
		t.Fatalf("expected deep mode, got %v", analyzer.modes)
	}
	if news.calls != 1 || news.assets[0] != "EUR/USD" {
		t.Fatalf("expected one news call for EUR/USD, got %v", news.assets)
	}
	if st.Result == nil || st.Result.Signal != domain.SignalCall || st.News == nil || st.News.News != "dólar fraco" {
		t.Fatalf("unexpected final state: %+v", st)
	}
	if st.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", st.Phase())
	}
}

func TestSessionAuthFailureSkipsNews(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("API key not valid")}
	news := &stubNews{}
	sess := newTestSession(analyzer, news, &stubChat{})

	sess.Upload(chartImage())
	st, err := sess.Analyze(context.Background(), domain.ModeFast)
	if err == nil {
		t.Fatal("expected analysis error")
	}
	if st.Error != MsgAuth || st.Result != nil {
		t.Fatalf("unexpected state: %+v", st)
	}
	if news.calls != 0 {
		t.Fatal("expected no news call")
	}
}

func TestSessionNewsFailureKeepsResult(t *testing.T) {
	analyzer := &stubAnalyzer{result: &domain.AnalysisResult{Asset: "BTC/USD", Signal: domain.SignalWait, Confidence: domain.ConfidenceLow}}
	news := &stubNews{err: errors.New("connection reset by peer")}
	sess := newTestSession(analyzer, news, &stubChat{})

	sess.Upload(chartImage())
	st, err := sess.Analyze(context.Background(), domain.ModeFast)
	if err != nil {
		t.Fatalf("news failure must not fail the cycle: %v", err)
	}
	if st.Result == nil || st.NewsError != MsgNetwork || st.Error != "" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSessionUploadDuringAnalysisDiscardsResult(t *testing.T) {
	analyzer := &stubAnalyzer{result: &domain.AnalysisResult{Asset: "EUR/USD", Signal: domain.SignalPut, Confidence: domain.ConfidenceMedium}}
	news := &stubNews{}
	sess := newTestSession(analyzer, news, &stubChat{})
	analyzer.hook = func() {
		sess.Upload(domain.Image{Name: "other.png", MimeType: domain.MimePNG, Data: []byte{2}})
	}

	sess.Upload(chartImage())
	st, err := sess.Analyze(context.Background(), domain.ModeFast)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected superseded error, got %v", err)
	}
	if st.Result != nil || st.AnalysisLoading || st.ImageName != "other.png" {
		t.Fatalf("expected stale result discarded: %+v", st)
	}
	if news.calls != 0 {
		t.Fatal("expected no news call for discarded result")
	}
}

func TestSessionUploadDuringNewsDiscardsNews(t *testing.T) {
	analyzer := &stubAnalyzer{result: &domain.AnalysisResult{Asset: "EUR/USD", Signal: domain.SignalCall, Confidence: domain.ConfidenceHigh}}
	news := &stubNews{news: &domain.NewsResult{News: "euro forte"}}
	sess := newTestSession(analyzer, news, &stubChat{})
	news.hook = func() {
		sess.Upload(domain.Image{Name: "other.png", MimeType: domain.MimePNG, Data: []byte{2}})
	}

	sess.Upload(chartImage())
	st, err := sess.Analyze(context.Background(), domain.ModeFast)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected superseded error, got %v", err)
	}
	if st.Result != nil || st.News != nil || st.NewsLoading {
		t.Fatalf("expected cycle discarded after re-upload: %+v", st)
	}
}

func TestSessionAnalyzeEmptyResult(t *testing.T) {
	news := &stubNews{}
	sess := newTestSession(&stubAnalyzer{}, news, &stubChat{})

	sess.Upload(chartImage())
	st, err := sess.Analyze(context.Background(), domain.ModeFast)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected empty result error, got %v", err)
	}
	if st.Error != MsgGeneric || st.Phase() != PhaseError || news.calls != 0 {
		t.Fatalf("unexpected state: %+v news=%d", st, news.calls)
	}
}

func TestSessionSendChat(t *testing.T) {
	chat := &stubChat{reply: "RSI é o Índice de Força Relativa."}
	sess := newTestSession(&stubAnalyzer{}, &stubNews{}, chat)

	st, err := sess.SendChat(context.Background(), "o que é RSI?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Transcript) != 3 {
		t.Fatalf("expected greeting plus two entries, got %d", len(st.Transcript))
	}
	if st.Transcript[1].Content != "o que é RSI?" || st.Transcript[2].Content != chat.reply {
		t.Fatalf("unexpected transcript: %+v", st.Transcript)
	}

	chat.reply = "Acima de 70 indica sobrecompra."
	before := st.Transcript
	st, err = sess.SendChat(context.Background(), "e acima de 70?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Transcript) != len(before)+2 {
		t.Fatalf("expected exactly two new entries, got %d -> %d", len(before), len(st.Transcript))
	}
	for i := range before {
		if st.Transcript[i] != before[i] {
			t.Fatalf("prior entry %d changed: %+v", i, st.Transcript[i])
		}
	}
	user, model := st.Transcript[len(before)], st.Transcript[len(before)+1]
	if user.Role != domain.RoleUser || user.Content != "e acima de 70?" {
		t.Fatalf("unexpected user entry: %+v", user)
	}
	if model.Role != domain.RoleModel || model.Content != chat.reply {
		t.Fatalf("unexpected model entry: %+v", model)
	}
	if len(chat.transcripts) != 2 || len(chat.transcripts[1]) != 4 {
		t.Fatalf("expected client to see the prior exchange and the question, got %+v", chat.transcripts)
	}
	if st.ChatLoading {
		t.Fatal("expected chat loading cleared")
	}
}

func TestSessionSendChatFailureAppendsFallback(t *testing.T) {
	chat := &stubChat{err: errors.New("boom")}
	sess := newTestSession(&stubAnalyzer{}, &stubNews{}, chat)

	st, err := sess.SendChat(context.Background(), "oi")
	if err != nil {
		t.Fatalf("chat failure should be absorbed: %v", err)
	}
	if st.Transcript[len(st.Transcript)-1].Content != ChatFallback {
		t.Fatalf("expected fallback reply, got %+v", st.Transcript)
	}
}

func TestSessionSendChatRejectsBlank(t *testing.T) {
	chat := &stubChat{}
	sess := newTestSession(&stubAnalyzer{}, &stubNews{}, chat)

	if _, err := sess.SendChat(context.Background(), "  "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected empty message error, got %v", err)
	}
	if len(chat.transcripts) != 0 {
		t.Fatal("expected no chat call")
	}
}

func TestSessionResetChat(t *testing.T) {
	sess := newTestSession(&stubAnalyzer{}, &stubNews{}, &stubChat{reply: "ok"})
	if _, err := sess.SendChat(context.Background(), "oi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := sess.ResetChat()
	if len(st.Transcript) != 1 || st.Transcript[0].Content != ChatGreeting {
		t.Fatalf("unexpected transcript after reset: %+v", st.Transcript)
	}
}

func TestSessionStateIsSnapshot(t *testing.T) {
	sess := newTestSession(&stubAnalyzer{}, &stubNews{}, &stubChat{reply: "ok"})
	snap := sess.State()
	snap.Transcript[0].Content = "mutated"
	if sess.State().Transcript[0].Content != ChatGreeting {
		t.Fatal("snapshot shares storage with session")
	}
}
