package lib

import (
	"context"
	"testing"
	"wedding/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInitTelemetryDisabled(t *testing.T) {
	config.Set(&config.Config{ServiceName: "wedding-api"})
	defer config.Set(nil)

	tp, err := InitTracer(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, tp)
	mp, err := InitMetrics(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, mp)
}

func TestCount(t *testing.T) {
	config.Set(&config.Config{ServiceName: "wedding-api"})
	defer config.Set(nil)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(mp)
	ResetCounters()
	defer func() {
		otel.SetMeterProvider(prev)
		ResetCounters()
	}()

	ctx := context.Background()
	Count(ctx, METRIC_ORDERS_CREATED, 1)
	Count(ctx, METRIC_ORDERS_CREATED, 2, attribute.String("status", "pending"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, METRIC_ORDERS_CREATED, m.Name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
}
