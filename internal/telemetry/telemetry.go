// Package telemetry exports tracker lifecycle counters as OpenTelemetry
// metrics. Export is off by default; the tracker then records into Noop.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "projtrack"

// Recorder receives lifecycle events from the tracker.
type Recorder interface {
	SessionStarted(ctx context.Context, aiModel string)
	StepStarted(ctx context.Context, stepType string)
	StepCompleted(ctx context.Context, status string, duration time.Duration)
	ProjectCompleted(ctx context.Context, status string)
	Close(ctx context.Context) error
}

// Config holds OTLP exporter configuration.
type Config struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
	Insecure bool   `toml:"insecure"`
}

// Noop discards every event.
type Noop struct{}

func (Noop) SessionStarted(context.Context, string)               {}
func (Noop) StepStarted(context.Context, string)                  {}
func (Noop) StepCompleted(context.Context, string, time.Duration) {}
func (Noop) ProjectCompleted(context.Context, string)             {}
func (Noop) Close(context.Context) error                          { return nil }

// OTel records events as OpenTelemetry instruments.
type OTel struct {
	provider      *sdkmetric.MeterProvider
	sessionsTotal metric.Int64Counter
	stepsStarted  metric.Int64Counter
	stepsDone     metric.Int64Counter
	stepDuration  metric.Float64Histogram
	projectsDone  metric.Int64Counter
}

// New returns a Recorder for cfg: an OTLP gRPC exporter when enabled with
// an endpoint, Noop otherwise.
func New(ctx context.Context, version string, cfg Config) (Recorder, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return Noop{}, nil
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts,
			otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			otlpmetricgrpc.WithInsecure(),
		)
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	rec, err := NewOTel(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	return rec, nil
}

// NewOTel builds the instruments on the given provider.
func NewOTel(provider *sdkmetric.MeterProvider) (*OTel, error) {
	meter := provider.Meter(serviceName)

	sessionsTotal, err := meter.Int64Counter(
		"projtrack_sessions_started_total",
		metric.WithDescription("Project sessions started"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	stepsStarted, err := meter.Int64Counter(
		"projtrack_steps_started_total",
		metric.WithDescription("Steps started"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating steps started counter: %w", err)
	}

	stepsDone, err := meter.Int64Counter(
		"projtrack_steps_completed_total",
		metric.WithDescription("Steps that reached a terminal status"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating steps completed counter: %w", err)
	}

	stepDuration, err := meter.Float64Histogram(
		"projtrack_step_duration_seconds",
		metric.WithDescription("Step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step duration histogram: %w", err)
	}

	projectsDone, err := meter.Int64Counter(
		"projtrack_projects_completed_total",
		metric.WithDescription("Project sessions closed"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating projects counter: %w", err)
	}

	return &OTel{
		provider:      provider,
		sessionsTotal: sessionsTotal,
		stepsStarted:  stepsStarted,
		stepsDone:     stepsDone,
		stepDuration:  stepDuration,
		projectsDone:  projectsDone,
	}, nil
}

func (o *OTel) SessionStarted(ctx context.Context, aiModel string) {
	o.sessionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("ai_model", aiModel)))
}

func (o *OTel) StepStarted(ctx context.Context, stepType string) {
	o.stepsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("step_type", stepType)))
}

func (o *OTel) StepCompleted(ctx context.Context, status string, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String("status", status))
	o.stepsDone.Add(ctx, 1, opt)
	o.stepDuration.Record(ctx, duration.Seconds(), opt)
}

func (o *OTel) ProjectCompleted(ctx context.Context, status string) {
	o.projectsDone.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// Close shuts down the provider and flushes pending metrics.
func (o *OTel) Close(ctx context.Context) error {
	return o.provider.Shutdown(ctx)
}
