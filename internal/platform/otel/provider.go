// Package otel wires opt-in OpenTelemetry tracing for dice commands.
package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/dicetower/internal/platform/config"
)

// InstrumentationName is the tracer name used by dice commands.
const InstrumentationName = "github.com/louisbranch/dicetower"

// Config controls trace export.
type Config struct {
	Endpoint string `env:"DICETOWER_OTEL_ENDPOINT"`
	Enabled  string `env:"DICETOWER_OTEL_ENABLED"`
}

func (c Config) active() bool {
	if strings.EqualFold(strings.TrimSpace(c.Enabled), "false") {
		return false
	}
	return strings.TrimSpace(c.Endpoint) != ""
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when DICETOWER_OTEL_ENDPOINT is empty or
// DICETOWER_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and no global provider is registered.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	if !cfg.active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the dice tracer from the global provider. It is a no-op
// tracer until Setup registers an exporting provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
