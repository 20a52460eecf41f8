package order

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the order lifecycle counters. A nil *Metrics is valid and
// records nothing, so tests can pass nil.
type Metrics struct {
	created     metric.Int64Counter
	transitions metric.Int64Counter
}

// NewMetrics registers the order counters on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	created, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders created"))
	if err != nil {
		return nil, errors.Wrap(err, "orders_created_total")
	}
	transitions, err := meter.Int64Counter("order_status_transitions_total",
		metric.WithDescription("Committed order status transitions"))
	if err != nil {
		return nil, errors.Wrap(err, "order_status_transitions_total")
	}
	return &Metrics{created: created, transitions: transitions}, nil
}

func (m *Metrics) orderCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.created.Add(ctx, 1)
}

func (m *Metrics) statusChanged(ctx context.Context, to Status) {
	if m == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(to))))
}
