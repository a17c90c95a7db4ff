package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	actionCounter  otelmetric.Int64Counter
	actionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	actionCounter, _ := meter.Int64Counter(
		"actions.processed",
		otelmetric.WithDescription("Number of gateway actions processed"),
	)

	actionDuration, _ := meter.Float64Histogram(
		"actions.duration",
		otelmetric.WithDescription("Gateway action processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		actionCounter:  actionCounter,
		actionDuration: actionDuration,
	}
}

func (o *Observability) RecordActionProcessed(ctx context.Context, action, status string) {
	if o != nil && o.actionCounter != nil {
		o.actionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("action", action),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordActionDuration(ctx context.Context, action string, duration time.Duration) {
	if o != nil && o.actionDuration != nil {
		o.actionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("action", action),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
