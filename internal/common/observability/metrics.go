package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"acquisition-console/internal/common/logger"
)

const instrumentationName = "acquisition-console"

// Options configures New. A nil Registerer means the default prometheus registry.
type Options struct {
	ServiceName    string
	TracingEnabled bool
	JaegerEndpoint string
	Registerer     promclient.Registerer
	Logger         logger.Logger
}

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer

	submissionCounter  otelmetric.Int64Counter
	submissionDuration otelmetric.Float64Histogram
	lookupCounter      otelmetric.Int64Counter
}

// New installs the meter provider (and the Jaeger tracer provider when
// enabled). Exporter failures degrade to a no-op instance.
func New(opts Options) *Observability {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	o := &Observability{tracer: otel.Tracer(instrumentationName)}

	promOpts := []prometheus.Option{}
	if opts.Registerer != nil {
		promOpts = append(promOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(promOpts...)
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err})
		return o
	}

	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(o.meterProvider)
	o.meter = o.meterProvider.Meter(opts.ServiceName)

	o.submissionCounter, _ = o.meter.Int64Counter(
		"submissions.processed",
		otelmetric.WithDescription("Number of prediction submissions processed"),
	)
	o.submissionDuration, _ = o.meter.Float64Histogram(
		"submissions.duration",
		otelmetric.WithDescription("Prediction submission duration"),
		otelmetric.WithUnit("ms"),
	)
	o.lookupCounter, _ = o.meter.Int64Counter(
		"lookups.processed",
		otelmetric.WithDescription("Number of lookup calls processed"),
	)

	if opts.TracingEnabled {
		tp, err := newTracerProvider(opts.JaegerEndpoint, res)
		if err != nil {
			log.Warn("tracing disabled", map[string]interface{}{"error": err})
		} else {
			o.tracerProvider = tp
			otel.SetTracerProvider(tp)
			o.tracer = tp.Tracer(instrumentationName)
		}
	}

	return o
}

func newTracerProvider(endpoint string, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return nil, fmt.Errorf("create jaeger exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

// StartSpan starts a span named name under ctx. Callers must End the span.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	if o != nil && o.tracer != nil {
		tracer = o.tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *Observability) RecordSubmission(ctx context.Context, mode, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	)
	if o.submissionCounter != nil {
		o.submissionCounter.Add(ctx, 1, attrs)
	}
	if o.submissionDuration != nil {
		o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) RecordLookup(ctx context.Context, kind, status string) {
	if o == nil || o.lookupCounter == nil {
		return
	}
	o.lookupCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
