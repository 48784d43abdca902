package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"signal-analyzer/internal/config"
	"signal-analyzer/internal/llm/backend"
	mcpserver "signal-analyzer/internal/mcp"
	"signal-analyzer/internal/workflow"
	"signal-analyzer/pkg/logging"
	"signal-analyzer/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initTracerFunc   = tracing.InitTracer
	newProviderFunc  = backend.New
	newMCPServerFunc = mcpserver.NewServer
	runStdioFunc     = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	// stdout carries the protocol, so logs go to stderr.
	logger := logging.NewConsole(os.Stderr, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	provider, err := newProviderFunc(ctx, cfg, tracer, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Provider).Msg("failed to create model client")
	}
	session := workflow.NewProviderSession(tracer, logger, provider)

	mcpSrv := newMCPServerFunc(tracer, session, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	})

	logger.Info().Str("provider", cfg.Provider).Msg("mcp stdio server starting")
	if err := runStdioFunc(ctx, mcpSrv); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("mcp stdio server failed")
	}
}
