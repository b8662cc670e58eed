// internal/common/observability/observability_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutJaegerEndpoint(t *testing.T) {
	obs := New("steadyone-test", "")
	defer obs.Shutdown()

	require.NotNil(t, obs)
	assert.Nil(t, obs.tracerProvider)

	// Tracing is disabled but StartSpan must still hand back a usable span.
	ctx, span := obs.StartSpan(context.Background(), "select-next-listing")
	require.NotNil(t, span)
	span.End()

	obs.RecordJobProcessed(ctx, "select-next-listing")
	obs.RecordJobDuration(ctx, 42*time.Millisecond, "select-next-listing")
	obs.RecordListingScored(ctx, "ACT_NOW")
}

func TestRecorders_NoOpOnZeroValue(t *testing.T) {
	obs := &Observability{}

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "score-listing")
	obs.RecordJobDuration(ctx, time.Second, "score-listing")
	obs.RecordListingScored(ctx, "WAIT")
	obs.Shutdown()
}
