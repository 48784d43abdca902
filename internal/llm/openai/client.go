package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/llm"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultFastModel = "o4-mini"
	DefaultDeepModel = "o3"
	DefaultNewsModel = "gpt-4o-search-preview"
	DefaultChatModel = "gpt-4o-mini"

	finishContentFilter = "content_filter"
)

type completer interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Options configures an OpenAI-backed provider. Tier thinking budgets are
// mapped onto reasoning effort levels.
type Options struct {
	APIKey    string
	BaseURL   string
	Tiers     llm.Tiers
	NewsModel string
	ChatModel string
}

// Client implements llm.Provider on the OpenAI chat completions API.
type Client struct {
	completions completer
	tiers       llm.Tiers
	newsModel   string
	chatModel   string
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// DefaultTiers returns OpenAI reasoning models with the shared budgets.
func DefaultTiers() llm.Tiers {
	return llm.Tiers{
		Fast: llm.Tier{Model: DefaultFastModel, ThinkingBudget: llm.DefaultFastThinkingBudget},
		Deep: llm.Tier{Model: DefaultDeepModel, ThinkingBudget: llm.DefaultDeepThinkingBudget},
	}
}

func NewClient(tracer trace.Tracer, logger zerolog.Logger, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	oc := openai.NewClient(reqOpts...)
	return newClient(&oc.Chat.Completions, tracer, logger, opts), nil
}

func newClient(completions completer, tracer trace.Tracer, logger zerolog.Logger, opts Options) *Client {
	if opts.Tiers.Fast.Model == "" || opts.Tiers.Deep.Model == "" {
		opts.Tiers = DefaultTiers()
	}
	if opts.NewsModel == "" {
		opts.NewsModel = DefaultNewsModel
	}
	if opts.ChatModel == "" {
		opts.ChatModel = DefaultChatModel
	}
	return &Client{
		completions: completions,
		tiers:       opts.Tiers,
		newsModel:   opts.NewsModel,
		chatModel:   opts.ChatModel,
		tracer:      tracer,
		logger:      logger.With().Str("component", "openai_client").Logger(),
	}
}

// reasoningEffort maps a thinking budget to the nearest effort level.
func reasoningEffort(budget int32) shared.ReasoningEffort {
	switch {
	case budget <= 4096:
		return shared.ReasoningEffortLow
	case budget <= 16384:
		return shared.ReasoningEffortMedium
	default:
		return shared.ReasoningEffortHigh
	}
}

func imageDataURL(image domain.Image) string {
	return "data:" + image.MimeType + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
}

func (c *Client) Analyze(ctx context.Context, image domain.Image, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
	tier := c.tiers.For(mode)
	effort := reasoningEffort(tier.ThinkingBudget)
	ctx, span := c.tracer.Start(ctx, "openai.analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", tier.Model),
		attribute.String("analysis.mode", string(mode)),
		attribute.String("llm.reasoning_effort", string(effort)),
	)

	if len(image.Data) == 0 {
		return nil, llm.ErrEmptyImage
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(tier.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(llm.AnalysisPrompt()),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL:    imageDataURL(image),
					Detail: "high",
				}),
			}),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   llm.SchemaName,
					Schema: llm.AnalysisJSONSchema(),
					Strict: openai.Bool(true),
				},
			},
		},
		ReasoningEffort: effort,
	}

	start := time.Now()
	text, err := c.complete(ctx, params)
	if err != nil {
		c.fail(span, "analyze", tier.Model, err)
		return nil, err
	}
	result, err := domain.ParseAnalysisResult(text)
	if err != nil {
		c.fail(span, "analyze", tier.Model, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("analysis.asset", result.Asset), attribute.String("analysis.signal", string(result.Signal)))
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

func (c *Client) FetchNews(ctx context.Context, asset string) (*domain.NewsResult, error) {
	ctx, span := c.tracer.Start(ctx, "openai.fetch-news")
	defer span.End()

	asset = strings.TrimSpace(asset)
	if asset == "" {
		return nil, llm.ErrEmptyAsset
	}
	span.SetAttributes(attribute.String("llm.model", c.newsModel), attribute.String("analysis.asset", asset))

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.newsModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(llm.NewsPrompt(asset)),
		},
		WebSearchOptions: openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: "medium",
		},
	}

	resp, err := c.completions.New(ctx, params)
	if err != nil {
		err = fmt.Errorf("openai news: %w", err)
		c.fail(span, "news", c.newsModel, err)
		return nil, err
	}
	choice, err := firstChoice(resp)
	if err != nil {
		c.fail(span, "news", c.newsModel, err)
		return nil, err
	}

	sources := make([]domain.Source, 0, len(choice.Message.Annotations))
	for _, ann := range choice.Message.Annotations {
		sources = append(sources, domain.Source{URI: ann.URLCitation.URL, Title: ann.URLCitation.Title})
	}
	out := &domain.NewsResult{News: choice.Message.Content, Sources: llm.DedupeSources(sources)}
	c.logger.Info().Str("model", c.newsModel).Str("asset", asset).Int("sources", len(out.Sources)).Msg("market news fetched")
	return out, nil
}

func (c *Client) ContinueChat(ctx context.Context, transcript []domain.ChatMessage) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openai.continue-chat")
	defer span.End()

	history, last, err := llm.SplitTranscript(transcript)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("llm.model", c.chatModel), attribute.Int("chat.history_len", len(history)))

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(llm.ChatSystemInstruction))
	for _, msg := range history {
		if msg.Role == domain.RoleModel {
			messages = append(messages, openai.AssistantMessage(msg.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(msg.Content))
	}
	messages = append(messages, openai.UserMessage(last.Content))

	text, err := c.complete(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.chatModel),
		Messages: messages,
	})
	if err != nil {
		c.fail(span, "chat", c.chatModel, err)
		return "", err
	}
	return text, nil
}

func (c *Client) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	choice, err := firstChoice(resp)
	if err != nil {
		return "", err
	}
	return choice.Message.Content, nil
}

func firstChoice(resp *openai.ChatCompletion) (openai.ChatCompletionChoice, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return openai.ChatCompletionChoice{}, fmt.Errorf("openai returned no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == finishContentFilter || choice.Message.Refusal != "" {
		return openai.ChatCompletionChoice{}, fmt.Errorf("%w: %s", llm.ErrSafetyBlocked, choice.Message.Refusal)
	}
	return choice, nil
}

func (c *Client) fail(span trace.Span, op, model string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Error().Err(err).Str("op", op).Str("model", model).Msg("openai request failed")
}
