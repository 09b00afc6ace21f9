// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace builds the OpenTelemetry tracer handed to the processor and
// the RPC server. Spans are exported to a zipkin collector.
package trace

import (
	"context"
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	exportTimeout = 10 * time.Second
	// Longer than [exportTimeout] so in-flight exports finish before the
	// provider shuts down.
	shutdownTimeout = 15 * time.Second

	DefaultEndpoint = "http://localhost:9411/api/v2/spans"
)

var (
	ErrMissingEndpoint = errors.New("tracing enabled without an endpoint")

	_ trace.Tracer = (*noopTracer)(nil)
	_ trace.Tracer = (*tracer)(nil)
)

type Config struct {
	Enabled bool `json:"enabled" env:"ENABLED"`

	// SampleRate is the fraction of transactions traced. Values >= 1 trace
	// everything, values <= 0 trace nothing.
	SampleRate float64 `json:"sampleRate" env:"SAMPLE_RATE"`

	// Endpoint is the zipkin span collector URL.
	Endpoint string `json:"endpoint" env:"ENDPOINT"`

	ServiceName string `json:"serviceName" env:"SERVICE_NAME"`
	Version     string `json:"version"`
}

func DefaultConfig() Config {
	return Config{
		SampleRate:  0.1,
		Endpoint:    DefaultEndpoint,
		ServiceName: "custodyvm",
	}
}

// Noop returns a tracer whose spans are never recorded.
func Noop() trace.Tracer {
	return &noopTracer{Tracer: oteltrace.NewNoopTracerProvider().Tracer("custodyvm")}
}

type noopTracer struct {
	oteltrace.Tracer
}

func (*noopTracer) Close() error {
	return nil
}

type tracer struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

func New(config Config) (trace.Tracer, error) {
	if !config.Enabled {
		return Noop(), nil
	}
	if config.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	exporter, err := zipkin.New(config.Endpoint)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("version", config.Version),
				semconv.ServiceNameKey.String(config.ServiceName),
			),
		),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)
	return &tracer{
		Tracer: tp.Tracer(config.ServiceName),
		tp:     tp,
	}, nil
}
