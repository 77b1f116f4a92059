package timing

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polio-eradicator/internal/logger"
)

func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestStartRecordsOnce(t *testing.T) {
	tt := NewTracker(nil)
	tt.now = fakeClock(10 * time.Millisecond)

	stop := tt.Start("load")
	assert.Equal(t, 10*time.Millisecond, stop())
	assert.Equal(t, 10*time.Millisecond, stop())

	assert.Equal(t, []time.Duration{10 * time.Millisecond}, tt.Timings("load"))
}

func TestAverageAndOperations(t *testing.T) {
	tt := NewTracker(nil)
	tt.Record("tiles", 100*time.Millisecond)
	tt.Record("tiles", 300*time.Millisecond)
	tt.Record("index", time.Millisecond)

	assert.Equal(t, 200*time.Millisecond, tt.Average("tiles"))
	assert.Equal(t, time.Duration(0), tt.Average("missing"))
	assert.Equal(t, []string{"index", "tiles"}, tt.Operations())

	tt.Reset("tiles")
	assert.Nil(t, tt.Timings("tiles"))
	tt.Reset("")
	assert.Empty(t, tt.Operations())
}

func TestLogSummary(t *testing.T) {
	var buf bytes.Buffer
	tt := NewTracker(logger.NewZerolog(&buf, logger.InfoLevel))
	tt.Record("load", 40*time.Millisecond)

	tt.Shutdown()

	require.Contains(t, buf.String(), `"operation":"load"`)
	assert.Contains(t, buf.String(), `"average_ms":40`)
}
