package engine

import (
	"sync"
	"time"
)

// Stats counts engine activity.
type Stats struct {
	Messages        int
	FullPasses      int
	ApplyPasses     int
	Dispatches      int
	Fired           int
	Deferred        int
	SettleLimitHits int
	IdleTicks       int
}

// DefaultTimingSamples is the capacity of the engine's timing buffer.
const DefaultTimingSamples = 60

// TimingBuffer is a ring buffer of render durations.
type TimingBuffer struct {
	mu       sync.RWMutex
	samples  []time.Duration
	index    int
	capacity int
	count    int
}

// NewTimingBuffer creates a buffer holding up to capacity samples.
func NewTimingBuffer(capacity int) *TimingBuffer {
	if capacity <= 0 {
		capacity = DefaultTimingSamples
	}
	return &TimingBuffer{
		samples:  make([]time.Duration, capacity),
		capacity: capacity,
	}
}

// Add records a duration, evicting the oldest one when full.
func (b *TimingBuffer) Add(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples[b.index] = d
	b.index = (b.index + 1) % b.capacity
	if b.count < b.capacity {
		b.count++
	}
}

// Samples returns a copy of the samples in chronological order.
func (b *TimingBuffer) Samples() []time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}
	result := make([]time.Duration, b.count)
	if b.count < b.capacity {
		copy(result, b.samples[:b.count])
	} else {
		// Full: the oldest sample is at b.index.
		copy(result, b.samples[b.index:])
		copy(result[b.capacity-b.index:], b.samples[:b.index])
	}
	return result
}

// Count returns the number of samples held.
func (b *TimingBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Mean returns the average sample, or zero when empty.
func (b *TimingBuffer) Mean() time.Duration {
	samples := b.Samples()
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, s := range samples {
		total += s
	}
	return total / time.Duration(len(samples))
}
