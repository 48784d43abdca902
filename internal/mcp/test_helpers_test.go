package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/workflow"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type stubProvider struct {
	mu sync.Mutex

	result   *domain.AnalysisResult
	err      error
	news     *domain.NewsResult
	newsErr  error
	reply    string
	chatErr  error
	modes    []domain.AnalysisMode
	assets   []string
	lastTurn string
}

func (s *stubProvider) Analyze(_ context.Context, _ domain.Image, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes = append(s.modes, mode)
	return s.result, s.err
}

func (s *stubProvider) FetchNews(_ context.Context, asset string) (*domain.NewsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append(s.assets, asset)
	return s.news, s.newsErr
}

func (s *stubProvider) ContinueChat(_ context.Context, transcript []domain.ChatMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTurn = transcript[len(transcript)-1].Content
	return s.reply, s.chatErr
}

func testServer() (*sdkmcp.Server, *workflow.Session, *stubProvider) {
	provider := &stubProvider{
		result: &domain.AnalysisResult{
			Asset:      "EUR/USD",
			Signal:     domain.SignalCall,
			Confidence: domain.ConfidenceHigh,
			Justification: domain.Justification{
				Summary: "rompimento de resistência",
			},
		},
		news: &domain.NewsResult{
			News:    "Euro sobe após dados de inflação.",
			Sources: []domain.Source{{URI: "https://example.com/eur", Title: "EUR"}},
		},
		reply: "O RSI mede a força do movimento.",
	}
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	session := workflow.NewProviderSession(tracer, zerolog.Nop(), provider)
	srv := NewServer(tracer, session, ServerConfig{})
	return srv, session, provider
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return nil
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}

func decodeStructured(result *sdkmcp.CallToolResult, out any) error {
	body, err := json.Marshal(result.StructuredContent)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
