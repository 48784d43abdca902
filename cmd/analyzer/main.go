package main

import (
	"context"
	"fmt"
	"os"

	"signal-analyzer/internal/config"
	"signal-analyzer/internal/imageinput"
	"signal-analyzer/internal/llm/backend"
	"signal-analyzer/internal/tui"
	"signal-analyzer/pkg/logging"
	"signal-analyzer/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	openLogFunc     = logging.OpenFile
	initTracerFunc  = tracing.InitTracer
	newProviderFunc = backend.New
	loadImageFunc   = imageinput.Load
	argsFunc        = func() []string { return os.Args[1:] }
	workDirFunc     = os.Getwd
	runProgramFunc  = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("analyzer failed")
	}
}

// run owns every deferred cleanup so the log file and tracer are flushed
// even when startup fails.
func run() error {
	loadEnvFunc()
	cfg := loadConfigFunc()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, closer, err := openLogFunc(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
	}
	defer closer.Close()

	tp, tracer, err := initTracerFunc(ctx, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize tracer")
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	provider, err := newProviderFunc(ctx, cfg, tracer, logger)
	if err != nil {
		logger.Error().Err(err).Str("provider", cfg.Provider).Msg("failed to create model client")
		return fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	svc := tui.NewServices(provider, logger)
	svc.LoadImage = loadImageFunc
	if dir, err := workDirFunc(); err == nil {
		svc.StartDir = dir
	}
	model := tui.NewAppModel(svc)

	if args := argsFunc(); len(args) > 0 {
		img, err := loadImageFunc(args[0])
		if err != nil {
			logger.Error().Err(err).Str("path", args[0]).Msg("failed to load chart")
			return fmt.Errorf("load chart %s: %w", args[0], err)
		}
		model = model.WithImage(img)
	}

	logger.Info().Str("provider", cfg.Provider).Msg("starting analyzer")
	if err := runProgramFunc(model); err != nil {
		logger.Error().Err(err).Msg("terminal program failed")
		return fmt.Errorf("terminal program: %w", err)
	}
	return nil
}
