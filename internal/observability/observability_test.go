package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	id := GenerateCorrelationID()
	require.NotEmpty(t, id)

	ctx := WithCorrelationID(context.Background(), id)
	assert.Equal(t, id, ExtractCorrelationID(ctx))
	assert.Empty(t, ExtractCorrelationID(context.Background()))
}

func TestStoreMetrics_RecordFailure(t *testing.T) {
	m := NewStoreMetrics("metrics_test")
	before := testutil.ToFloat64(PersistFailures.WithLabelValues("metrics_test"))
	m.RecordFailure()
	assert.Equal(t, before+1, testutil.ToFloat64(PersistFailures.WithLabelValues("metrics_test")))

	m.SetCount(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(StoreEntities.WithLabelValues("metrics_test")))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "blog-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, span := TracePersist(context.Background(), "users", "file")
	EndWithError(span, errors.New("write failed"))
}
