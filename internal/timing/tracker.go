package timing

import (
	"sort"
	"sync"
	"time"

	"polio-eradicator/internal/logger"
)

// Tracker collects wall-clock durations per named operation.
type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	log     logger.Logger
	now     func() time.Time
}

func NewTracker(log logger.Logger) *Tracker {
	if log == nil {
		log = logger.NewNop()
	}
	return &Tracker{
		timings: make(map[string][]time.Duration),
		log:     log,
		now:     time.Now,
	}
}

// Start begins timing operation. Calling the returned func records the
// duration; calling it again is a no-op.
func (tt *Tracker) Start(operation string) func() time.Duration {
	start := tt.now()
	var once sync.Once
	var d time.Duration
	return func() time.Duration {
		once.Do(func() {
			d = tt.now().Sub(start)
			tt.Record(operation, d)
		})
		return d
	}
}

func (tt *Tracker) Record(operation string, d time.Duration) {
	tt.mu.Lock()
	tt.timings[operation] = append(tt.timings[operation], d)
	tt.mu.Unlock()

	tt.log.Debug("operation timed", map[string]interface{}{
		"operation":   operation,
		"duration_ms": d.Milliseconds(),
	})
}

func (tt *Tracker) Timings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}
	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) Average(operation string) time.Duration {
	timings := tt.Timings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range timings {
		total += d
	}
	return total / time.Duration(len(timings))
}

// Operations lists every operation seen so far, sorted.
func (tt *Tracker) Operations() []string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// LogSummary writes one info line per operation with its count and average.
func (tt *Tracker) LogSummary() {
	for _, op := range tt.Operations() {
		tt.log.Info("timing summary", map[string]interface{}{
			"operation":  op,
			"count":      len(tt.Timings(op)),
			"average_ms": tt.Average(op).Milliseconds(),
		})
	}
}

// Shutdown logs the summary so the tracker can be registered with the
// shutdown manager.
func (tt *Tracker) Shutdown() {
	tt.LogSummary()
}

func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if operation == "" {
		tt.timings = make(map[string][]time.Duration)
	} else {
		delete(tt.timings, operation)
	}
}
