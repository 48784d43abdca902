package workflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/llm"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Session drives State against the model clients. It is safe for concurrent
// use; the lock is never held while a client call is outstanding.
type Session struct {
	mu    sync.Mutex
	state State

	analyzer llm.Analyzer
	news     llm.NewsFetcher
	chat     llm.Chatter
	tracer   trace.Tracer
	logger   zerolog.Logger
}

func NewSession(tracer trace.Tracer, logger zerolog.Logger, analyzer llm.Analyzer, news llm.NewsFetcher, chat llm.Chatter) *Session {
	return &Session{
		state:    NewState(),
		analyzer: analyzer,
		news:     news,
		chat:     chat,
		tracer:   tracer,
		logger:   logger.With().Str("component", "workflow_session").Logger(),
	}
}

// NewProviderSession wires all three capabilities from one backend.
func NewProviderSession(tracer trace.Tracer, logger zerolog.Logger, provider llm.Provider) *Session {
	return NewSession(tracer, logger, provider, provider, provider)
}

// State returns a snapshot of the current session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Session) update(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state.Clone()
}

func (s *Session) Upload(img domain.Image) State {
	s.logger.Info().Str("image", img.Name).Str("mime_type", img.MimeType).Int("bytes", len(img.Data)).Msg("image loaded")
	return s.update(func(st State) State { return st.Upload(img) })
}

func (s *Session) SetView(v View) State {
	return s.update(func(st State) State { return st.SetView(v) })
}

func (s *Session) ResetChat() State {
	return s.update(func(st State) State { return st.ResetChat() })
}

// Analyze runs one analysis cycle: the analysis call and, when an asset was
// identified, the news call. It returns the state after the cycle and the
// analysis error, if any. News failures are only reflected in State.NewsError.
// A cycle overtaken by another Upload or Analyze returns ErrSuperseded.
func (s *Session) Analyze(ctx context.Context, mode domain.AnalysisMode) (State, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.analyze")
	defer span.End()

	var req *AnalysisRequest
	st := s.update(func(st State) State {
		st, req = st.StartAnalysis(mode)
		return st
	})
	if req == nil {
		return st, ErrNoImage
	}
	span.SetAttributes(
		attribute.String("request.id", req.ID),
		attribute.String("analysis.mode", string(req.Mode)),
		attribute.Int64("analysis.generation", int64(req.Generation)),
	)
	logger := s.logger.With().Str("request_id", req.ID).Str("mode", string(req.Mode)).Logger()

	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, req.Image, req.Mode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Dur("latency", time.Since(start)).Msg("analysis failed")
	}

	var newsReq *NewsRequest
	st = s.update(func(st State) State {
		st, newsReq = st.FinishAnalysis(req.Generation, result, err)
		return st
	})
	if err != nil {
		return st, err
	}
	if newsReq == nil {
		switch {
		case st.Generation != req.Generation:
			logger.Info().Msg("analysis result discarded, superseded")
			return st, ErrSuperseded
		case result == nil:
			return st, ErrEmptyResult
		}
		return st, nil
	}

	news, newsErr := s.news.FetchNews(ctx, newsReq.Asset)
	if newsErr != nil {
		span.RecordError(newsErr)
		logger.Warn().Err(newsErr).Str("asset", newsReq.Asset).Msg("news fetch failed")
	}
	st = s.update(func(st State) State { return st.FinishNews(newsReq.Generation, news, newsErr) })
	if st.Generation != newsReq.Generation {
		logger.Info().Str("asset", newsReq.Asset).Msg("news discarded, superseded")
		return st, ErrSuperseded
	}
	logger.Info().Str("asset", newsReq.Asset).Dur("latency", time.Since(start)).Msg("analysis cycle finished")
	return st, nil
}

// SendChat submits text as the next user turn and waits for the reply.
func (s *Session) SendChat(ctx context.Context, text string) (State, error) {
	ctx, span := s.tracer.Start(ctx, "workflow.send-chat")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return s.State(), ErrEmptyMessage
	}
	var req *ChatRequest
	busy := false
	st := s.update(func(st State) State {
		if st.ChatLoading {
			busy = true
			return st
		}
		st, req = st.SetChatInput(text).SendChat()
		return st
	})
	if busy {
		return st, ErrChatBusy
	}
	span.SetAttributes(attribute.String("request.id", req.ID), attribute.Int("chat.turns", len(req.Transcript)))

	reply, err := s.chat.ContinueChat(ctx, req.Transcript)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().Err(err).Str("request_id", req.ID).Msg("chat reply failed")
	}
	return s.update(func(st State) State { return st.FinishChat(req.Generation, reply, err) }), nil
}
