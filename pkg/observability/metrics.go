package observability

import (
	"context"
	"fmt"

	"github.com/milan604/http-errors/pkg/apierr"

	"go.opentelemetry.io/otel/metric"
)

// ErrorMetrics counts API errors by status and errno.
type ErrorMetrics struct {
	errors metric.Int64Counter
}

// NewErrorMetrics creates the api.errors counter on meter.
func NewErrorMetrics(meter metric.Meter) (*ErrorMetrics, error) {
	c, err := meter.Int64Counter("api.errors",
		metric.WithDescription("API errors produced by handlers"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api.errors counter: %w", err)
	}
	return &ErrorMetrics{errors: c}, nil
}

// Record adds one to the counter for e.
func (m *ErrorMetrics) Record(ctx context.Context, e *apierr.APIError) {
	if m == nil || e == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		AttrHTTPStatusCode.Int(e.Status()),
		AttrErrno.Int(e.Errno()),
	))
}
