package mcp

import (
	"context"

	"signal-analyzer/internal/domain"
	"signal-analyzer/internal/workflow"
)

// SessionDriver is the slice of *workflow.Session the tool surface drives.
type SessionDriver interface {
	State() workflow.State
	Upload(img domain.Image) workflow.State
	ResetChat() workflow.State
	Analyze(ctx context.Context, mode domain.AnalysisMode) (workflow.State, error)
	SendChat(ctx context.Context, text string) (workflow.State, error)
}
