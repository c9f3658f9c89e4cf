package observability

import (
	"context"

	"github.com/milan604/http-errors/pkg/apierr"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanFromContext retrieves the current span from context
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddSpanAttributes adds attributes to the current span
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// RecordSpanError records an error on the current span
func RecordSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// RecordAPIError sets the errno, status and request id of e on the current
// span and records it as the span error. The tracked cause is not exported.
func RecordAPIError(ctx context.Context, e *apierr.APIError) {
	if e == nil {
		return
	}
	AddSpanAttributes(ctx,
		AttrErrno.Int(e.Errno()),
		AttrHTTPStatusCode.Int(e.Status()),
		AttrRequestID.String(e.RequestID()),
		AttrErrorName.String(e.Name()),
	)
	RecordSpanError(ctx, e)
}

// Common span attribute keys
var (
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrRequestID      = attribute.Key("request.id")
	AttrErrno          = attribute.Key("apierr.errno")
	AttrErrorName      = attribute.Key("apierr.name")
)
