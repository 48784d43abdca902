package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "signal-analyzer"

// InitTracer installs a global tracer provider. Spans are exported over OTLP
// gRPC only when endpoint is set; otherwise they are recorded and dropped.
func InitTracer(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
	res := resource.NewSchemaless(attribute.String("service.name", ServiceName))
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		exporter, err := otlptracegrpc.New(ctx, exporterOptions(endpoint)...)
		if err != nil {
			return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp, tp.Tracer(ServiceName), nil
}

func exporterOptions(endpoint string) []otlptracegrpc.Option {
	if strings.Contains(endpoint, "://") {
		return []otlptracegrpc.Option{otlptracegrpc.WithEndpointURL(endpoint)}
	}
	return []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure()}
}
