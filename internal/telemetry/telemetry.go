// Package telemetry provides OpenTelemetry integration for syncrosync.
//
// Telemetry is disabled by default (zero runtime overhead when off).
//
// # Configuration
//
//	SYNCRO_OTEL_ENABLED=true   enable telemetry (default: off)
//	OTEL_SERVICE_NAME=...      override service name
//
// When enabled, spans and metrics are pretty-printed to stderr; the
// exporter surface is deliberately small for a batch tool that runs to
// completion and exits.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/msptools/syncrosync"

var (
	shutdownFns []func(context.Context) error

	apiCallCounter metric.Int64Counter
)

// Enabled reports whether telemetry is active (SYNCRO_OTEL_ENABLED=true).
func Enabled() bool {
	return os.Getenv("SYNCRO_OTEL_ENABLED") == "true"
}

// Init configures OTel providers. When SYNCRO_OTEL_ENABLED is not "true"
// this installs no-op providers and returns immediately.
func Init(ctx context.Context, serviceName, version string) error {
	if !Enabled() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	traceExp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("telemetry: trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	shutdownFns = append(shutdownFns, tp.Shutdown)

	metricExp, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("telemetry: metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, mp.Shutdown)

	return nil
}

// Shutdown flushes and stops the configured providers.
func Shutdown(ctx context.Context) {
	for _, fn := range shutdownFns {
		_ = fn(ctx)
	}
	shutdownFns = nil
}

// Tracer returns the syncrosync tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationScope)
}

// CountAPICall records one remote API call on the process-wide counter.
// With telemetry off this hits the no-op meter and costs nothing.
func CountAPICall(ctx context.Context, method, path string) {
	if apiCallCounter == nil {
		counter, err := otel.Meter(instrumentationScope).Int64Counter(
			"syncrosync.api.calls",
			metric.WithDescription("Remote API calls issued"),
		)
		if err != nil {
			return
		}
		apiCallCounter = counter
	}
	apiCallCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("api.path", path),
		),
	)
}
