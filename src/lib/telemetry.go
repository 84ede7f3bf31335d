package lib

import (
	"context"
	"log"
	"sync"
	"wedding/src/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	METRIC_ORDERS_CREATED         = "orders_created_total"
	METRIC_ORDERS_CONFIRMED       = "orders_confirmed_total"
	METRIC_ORDERS_REJECTED        = "orders_rejected_total"
	METRIC_AVAILABILITY_CONFLICTS = "availability_conflicts_total"
	METRIC_RSVP_SUBMITTED         = "rsvp_submitted_total"
	METRIC_NOTIFICATIONS_SENT     = "notifications_sent_total"
	METRIC_NOTIFICATIONS_FAILED   = "notifications_failed_total"
)

var (
	counters   = map[string]metric.Int64Counter{}
	countersMu sync.Mutex
)

func newResource(ctx context.Context) (*resource.Resource, error) {
	c := config.Get()
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(c.ServiceName),
			semconv.ServiceVersion("1.0.0"),
			semconv.DeploymentEnvironment(c.ApiEnv),
		),
	)
}

// InitTracer installs the global tracer provider. It returns nil when no
// collector endpoint is configured.
func InitTracer(ctx context.Context) (*sdktrace.TracerProvider, error) {
	endpoint := config.Get().OtelEndpoint
	if endpoint == "" {
		return nil, nil
	}
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

func InitMetrics(ctx context.Context) (*sdkmetric.MeterProvider, error) {
	endpoint := config.Get().OtelEndpoint
	if endpoint == "" {
		return nil, nil
	}
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

func Tracer() trace.Tracer {
	return otel.Tracer(config.Get().ServiceName)
}

// ResetCounters drops cached instruments so the next Count call binds to the
// current global meter provider.
func ResetCounters() {
	countersMu.Lock()
	defer countersMu.Unlock()
	counters = map[string]metric.Int64Counter{}
}

// Count adds n to the named counter.
func Count(ctx context.Context, name string, n int64, attrs ...attribute.KeyValue) {
	countersMu.Lock()
	counter, ok := counters[name]
	if !ok {
		var err error
		counter, err = otel.Meter(config.Get().ServiceName).Int64Counter(name)
		if err != nil {
			countersMu.Unlock()
			log.Printf("Error creating counter %s: %s\n", name, err.Error())
			return
		}
		counters[name] = counter
	}
	countersMu.Unlock()
	counter.Add(ctx, n, metric.WithAttributes(attrs...))
}
