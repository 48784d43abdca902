package mcp

import (
	"context"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ServerConfig struct {
	// RequestTimeout bounds each request. Zero means no limit; analyses with
	// a large thinking budget can take minutes.
	RequestTimeout time.Duration
}

func NewServer(tracer trace.Tracer, session SessionDriver, cfg ServerConfig) *sdkmcp.Server {
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "signal-analyzer-mcp",
		Version: "1.0.0",
	}, &sdkmcp.ServerOptions{
		Instructions: "Load a trading chart screenshot, analyze it for a CALL/PUT/WAIT signal, and chat with the assistant. One session is shared by all calls.",
		Logger:       slog.Default(),
	})

	srv.AddReceivingMiddleware(timeoutMiddleware(cfg.RequestTimeout))
	if tracer != nil {
		srv.AddReceivingMiddleware(tracingMiddleware(tracer))
	}

	registerTools(srv, session)
	registerResources(srv, session)
	return srv
}

func timeoutMiddleware(timeout time.Duration) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if timeout <= 0 {
				return next(ctx, method, req)
			}
			timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(timeoutCtx, method, req)
		}
	}
}

func tracingMiddleware(tracer trace.Tracer) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			spanName := mcpSpanName(method, req)
			ctx, span := tracer.Start(ctx, spanName)
			span.SetAttributes(attribute.String("mcp.method", method))
			defer span.End()

			if callReq, ok := req.(*sdkmcp.CallToolRequest); ok {
				span.SetAttributes(attribute.String("mcp.tool", strings.TrimSpace(callReq.Params.Name)))
			}
			if readReq, ok := req.(*sdkmcp.ReadResourceRequest); ok {
				span.SetAttributes(attribute.String("mcp.resource.uri", strings.TrimSpace(readReq.Params.URI)))
			}

			result, err := next(ctx, method, req)
			if err != nil {
				span.RecordError(err)
			}
			return result, err
		}
	}
}

func mcpSpanName(method string, req sdkmcp.Request) string {
	switch method {
	case "tools/call":
		if callReq, ok := req.(*sdkmcp.CallToolRequest); ok {
			name := strings.TrimSpace(callReq.Params.Name)
			if name != "" {
				return "mcp.tool." + strings.ReplaceAll(name, "/", ".")
			}
		}
		return "mcp.tool.call"
	case "resources/read":
		return "mcp.resource.read"
	default:
		return "mcp." + strings.ReplaceAll(method, "/", ".")
	}
}
