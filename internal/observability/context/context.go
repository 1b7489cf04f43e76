package context

import "context"

type (
	requestIDKey struct{}
	orderIDKey   struct{}
)

// WithRequestID stores the inbound request id on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey{})
}

// WithOrderID tags the context with the order a request or job is working on.
func WithOrderID(ctx context.Context, orderID string) context.Context {
	return withValue(ctx, orderIDKey{}, orderID)
}

// OrderIDFromContext returns the tagged order id or an empty string.
func OrderIDFromContext(ctx context.Context) string {
	return stringValue(ctx, orderIDKey{})
}

func withValue(ctx context.Context, key any, value string) context.Context {
	if ctx == nil || value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringValue(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
