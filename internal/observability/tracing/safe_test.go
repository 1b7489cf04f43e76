package tracing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesKeepsAllowList(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/orders"),
		attribute.String("customer.name", "Ana"),
		attribute.String("order_id", "1700000000000"),
	)
	require.Len(t, attrs, 2)
	require.Equal(t, attribute.Key("http.route"), attrs[0].Key)
	require.Equal(t, attribute.Key("order_id"), attrs[1].Key)
}

func TestSafeErrorKeepsOutermostMessage(t *testing.T) {
	err := fmt.Errorf("persist orders: %w", errors.New("open /data/orders.json: permission denied"))
	require.EqualError(t, SafeError(err), "persist orders")
	require.Nil(t, SafeError(nil))
}
