package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/milan604/http-errors/pkg/apierr"
	"github.com/milan604/http-errors/pkg/logger"
	"github.com/milan604/http-errors/pkg/version"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityIface defines the interface for observability operations
type ObservabilityIface interface {
	// StartSpan creates a new span for tracing
	StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)

	// RecordAPIError annotates the span in ctx and counts the error
	RecordAPIError(ctx context.Context, e *apierr.APIError)

	// Shutdown flushes and stops the tracer provider
	Shutdown(ctx context.Context) error

	// GetTracer returns the tracer instance
	GetTracer() trace.Tracer
}

// Options configures tracing. Endpoint is an OTLP/HTTP collector
// (host:port); when it is empty and no Exporter is set, spans are recorded
// but not exported. Exporter and MeterProvider are set in code.
type Options struct {
	ServiceName    string  `mapstructure:"service_name"`
	ServiceVersion string  `mapstructure:"service_version"`
	Endpoint       string  `mapstructure:"endpoint"`
	Insecure       bool    `mapstructure:"insecure"`
	SampleRatio    float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`

	Exporter      sdktrace.SpanExporter `mapstructure:"-"`
	MeterProvider metric.MeterProvider  `mapstructure:"-"`
}

// Observability owns the tracer provider and the API error instruments.
type Observability struct {
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	metrics        *ErrorMetrics
	log            logger.LogManager
	serviceName    string
}

// New builds a tracer provider for opts. It does not touch the otel globals;
// call Install for that.
func New(log logger.LogManager, opts Options) (*Observability, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "unknown-service"
	}
	if opts.ServiceVersion == "" {
		opts.ServiceVersion = version.Version
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(opts.ServiceName),
			semconv.ServiceVersionKey.String(opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter := opts.Exporter
	if exporter == nil && opts.Endpoint != "" {
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint)}
		if opts.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(context.Background(), httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
	}

	sampler := sdktrace.AlwaysSample()
	if opts.SampleRatio > 0 && opts.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))
	}
	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	metrics, err := NewErrorMetrics(mp.Meter(opts.ServiceName))
	if err != nil {
		return nil, err
	}

	log.InfoF("observability initialized: service=%s, version=%s, endpoint=%q",
		opts.ServiceName, opts.ServiceVersion, opts.Endpoint)

	return &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(opts.ServiceName, trace.WithInstrumentationVersion(opts.ServiceVersion)),
		metrics:        metrics,
		log:            log,
		serviceName:    opts.ServiceName,
	}, nil
}

// MustNew creates a new Observability instance and panics on error
func MustNew(log logger.LogManager, opts Options) *Observability {
	obs, err := New(log, opts)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize observability: %v", err))
	}
	return obs
}

// Install makes o the global tracer provider and sets the W3C propagators.
func (o *Observability) Install() {
	otel.SetTracerProvider(o.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// StartSpan creates a new span for tracing
func (o *Observability) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, opts...)
}

// RecordAPIError annotates the current span with e and counts it.
func (o *Observability) RecordAPIError(ctx context.Context, e *apierr.APIError) {
	if e == nil {
		return
	}
	RecordAPIError(ctx, e)
	o.metrics.Record(ctx, e)
}

// Shutdown flushes pending spans and stops the tracer provider.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		o.log.ErrorF("failed to shutdown tracer provider: %v", err)
		return err
	}
	o.log.InfoF("observability shutdown completed")
	return nil
}

// GetTracer returns the tracer instance
func (o *Observability) GetTracer() trace.Tracer {
	return o.tracer
}

// TracerProvider returns the underlying provider.
func (o *Observability) TracerProvider() trace.TracerProvider {
	return o.tracerProvider
}
