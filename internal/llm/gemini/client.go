package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/llm"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by the client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a Gemini-backed provider.
type Options struct {
	APIKey    string
	Tiers     llm.Tiers
	NewsModel string
	ChatModel string
}

// Client implements llm.Provider on the Gemini API.
type Client struct {
	models    contentGenerator
	tiers     llm.Tiers
	newsModel string
	chatModel string
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewClient constructs the Gemini client. The API key is required.
func NewClient(ctx context.Context, tracer trace.Tracer, logger zerolog.Logger, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(gc.Models, tracer, logger, opts), nil
}

func newClient(models contentGenerator, tracer trace.Tracer, logger zerolog.Logger, opts Options) *Client {
	if opts.Tiers.Fast.Model == "" || opts.Tiers.Deep.Model == "" {
		opts.Tiers = llm.DefaultTiers()
	}
	if opts.NewsModel == "" {
		opts.NewsModel = llm.DefaultNewsModel
	}
	if opts.ChatModel == "" {
		opts.ChatModel = llm.DefaultChatModel
	}
	return &Client{
		models:    models,
		tiers:     opts.Tiers,
		newsModel: opts.NewsModel,
		chatModel: opts.ChatModel,
		tracer:    tracer,
		logger:    logger.With().Str("component", "gemini_client").Logger(),
	}
}

// Analyze sends the chart with the fixed instruction and parses the
// schema-constrained JSON answer.
func (c *Client) Analyze(ctx context.Context, image domain.Image, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
	tier := c.tiers.For(mode)
	ctx, span := c.tracer.Start(ctx, "gemini.analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", tier.Model),
		attribute.String("analysis.mode", string(mode)),
		attribute.Int("llm.thinking_budget", int(tier.ThinkingBudget)),
		attribute.String("image.mime_type", image.MimeType),
	)

	if len(image.Data) == 0 {
		return nil, llm.ErrEmptyImage
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(llm.AnalysisPrompt()),
			genai.NewPartFromBytes(image.Data, image.MimeType),
		}, genai.RoleUser),
	}
	budget := tier.ThinkingBudget
	config := &genai.GenerateContentConfig{
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: &budget},
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, tier.Model, contents, config)
	if err != nil {
		c.fail(span, "analyze", tier.Model, err)
		return nil, fmt.Errorf("gemini analyze: %w", err)
	}
	if err := blockedErr(resp); err != nil {
		c.fail(span, "analyze", tier.Model, err)
		return nil, err
	}

	result, err := domain.ParseAnalysisResult(resp.Text())
	if err != nil {
		c.fail(span, "analyze", tier.Model, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("analysis.asset", result.Asset),
		attribute.String("analysis.signal", string(result.Signal)),
	)
	c.logger.Info().
		Str("model", tier.Model).
		Str("mode", string(mode)).
		Str("prompt_version", llm.AnalysisPromptVersion).
		Str("asset", result.Asset).
		Str("signal", string(result.Signal)).
		Dur("latency", time.Since(start)).
		Msg("chart analyzed")
	return result, nil
}

// FetchNews asks a Google-Search-grounded model about the asset.
func (c *Client) FetchNews(ctx context.Context, asset string) (*domain.NewsResult, error) {
	ctx, span := c.tracer.Start(ctx, "gemini.fetch-news")
	defer span.End()

	asset = strings.TrimSpace(asset)
	if asset == "" {
		return nil, llm.ErrEmptyAsset
	}
	span.SetAttributes(attribute.String("llm.model", c.newsModel), attribute.String("analysis.asset", asset))

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.newsModel, genai.Text(llm.NewsPrompt(asset)), config)
	if err != nil {
		c.fail(span, "news", c.newsModel, err)
		return nil, fmt.Errorf("gemini news: %w", err)
	}
	if err := blockedErr(resp); err != nil {
		c.fail(span, "news", c.newsModel, err)
		return nil, err
	}

	out := &domain.NewsResult{
		News:    resp.Text(),
		Sources: groundingSources(resp),
	}
	c.logger.Info().
		Str("model", c.newsModel).
		Str("asset", asset).
		Int("sources", len(out.Sources)).
		Dur("latency", time.Since(start)).
		Msg("market news fetched")
	return out, nil
}

// ContinueChat replays prior turns as context and sends the newest user turn.
func (c *Client) ContinueChat(ctx context.Context, transcript []domain.ChatMessage) (string, error) {
	ctx, span := c.tracer.Start(ctx, "gemini.continue-chat")
	defer span.End()

	history, last, err := llm.SplitTranscript(transcript)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("llm.model", c.chatModel), attribute.Int("chat.history_len", len(history)))

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		contents = append(contents, genai.NewContentFromText(msg.Content, roleFor(msg.Role)))
	}
	contents = append(contents, genai.NewContentFromText(last.Content, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.ChatSystemInstruction, genai.RoleUser),
	}
	resp, err := c.models.GenerateContent(ctx, c.chatModel, contents, config)
	if err != nil {
		c.fail(span, "chat", c.chatModel, err)
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	if err := blockedErr(resp); err != nil {
		c.fail(span, "chat", c.chatModel, err)
		return "", err
	}
	return resp.Text(), nil
}

func (c *Client) fail(span trace.Span, op, model string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error().Err(err).Str("op", op).Str("model", model).Msg("gemini request failed")
}

func roleFor(role domain.Role) genai.Role {
	if role == domain.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// blockedErr turns a safety-filtered response into an error. The SDK returns
// such responses without error and with empty text.
func blockedErr(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("gemini returned no response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("%w: prompt %s", llm.ErrSafetyBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return fmt.Errorf("%w: candidate finish reason SAFETY", llm.ErrSafetyBlocked)
	}
	return nil
}

func groundingSources(resp *genai.GenerateContentResponse) []domain.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return []domain.Source{}
	}
	chunks := resp.Candidates[0].GroundingMetadata.GroundingChunks
	sources := make([]domain.Source, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, domain.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return llm.DedupeSources(sources)
}
