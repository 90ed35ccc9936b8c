// Package telemetry wires OpenTelemetry tracing and metrics for the API.
//
// Metrics are always readable at /-/metrics through the Prometheus
// exporter. Traces and a second metrics stream go to an OTLP collector
// only when telemetry is enabled.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/config"
)

const flushTimeout = 5 * time.Second

// Config describes where telemetry goes and how the service names itself.
type Config struct {
	Enabled      bool
	Endpoint     string
	ServiceName  string
	Version      string
	Environment  string
	SamplingRate float64

	// Registerer receives the Prometheus collector. nil means
	// prometheus.DefaultRegisterer, which is what /-/metrics serves.
	Registerer prom.Registerer
}

func FromConfig(cfg *config.Config) *Config {
	return &Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	}
}

// Provider owns the SDK providers installed as OTel globals by New.
type Provider struct {
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
}

// New installs global tracer and meter providers and the W3C propagator.
// The tracer provider is left as the OTel no-op when cfg.Enabled is false.
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	res, err := serviceResource(cfg)
	if err != nil {
		return nil, err
	}

	promReader, err := prometheusReader(cfg.Registerer)
	if err != nil {
		return nil, err
	}

	readers := []metric.Option{metric.WithResource(res), metric.WithReader(promReader)}
	p := &Provider{}

	if cfg.Enabled {
		tp, otlpReader, err := otlpPipeline(ctx, cfg, res)
		if err != nil {
			return nil, err
		}

		p.tracerProvider = tp
		otel.SetTracerProvider(tp)
		readers = append(readers, metric.WithReader(otlpReader))
	}

	p.meterProvider = metric.NewMeterProvider(readers...)
	otel.SetMeterProvider(p.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// serviceResource adds the service attributes without a schema URL, so the
// merge never conflicts with the schema resource.Default carries.
func serviceResource(cfg *Config) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("building telemetry resource: %w", err)
	}

	return res, nil
}

func prometheusReader(reg prom.Registerer) (metric.Reader, error) {
	var opts []prometheus.Option
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}

	exp, err := prometheus.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	return exp, nil
}

// otlpPipeline dials the collector at cfg.Endpoint without TLS. The
// collector is expected to run as a sidecar or on the cluster network.
func otlpPipeline(ctx context.Context, cfg *Config, res *resource.Resource) (*trace.TracerProvider, metric.Reader, error) {
	spans, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating otlp trace exporter: %w", err)
	}

	metrics, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating otlp metric exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(spans),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SamplingRate))),
	)

	return tp, metric.NewPeriodicReader(metrics), nil
}

// Shutdown flushes pending spans and metrics, giving up after a few
// seconds regardless of ctx.
func (p *Provider) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	var errs []error

	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flushing traces: %w", err))
		}
	}

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flushing metrics: %w", err))
		}
	}

	return errors.Join(errs...)
}
