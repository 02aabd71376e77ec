package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider sets the global meter provider backed by the Prometheus
// exporter. It returns the handler for the /metrics endpoint and a shutdown
// function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource(serviceName, serviceVersion)),
	)
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// Metrics holds the storefront's application counters. A nil *Metrics is
// valid and records nothing, so tests can pass nil.
type Metrics struct {
	ordersPlaced  metric.Int64Counter
	cartMutations metric.Int64Counter
}

func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("storefront")

	ordersPlaced, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders placed through checkout."),
	)
	if err != nil {
		return nil, err
	}

	cartMutations, err := meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart mutations, by operation."),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ordersPlaced:  ordersPlaced,
		cartMutations: cartMutations,
	}, nil
}

func (m *Metrics) OrderPlaced(ctx context.Context) {
	if m == nil {
		return
	}
	m.ordersPlaced.Add(ctx, 1)
}

func (m *Metrics) CartMutation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.cartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
