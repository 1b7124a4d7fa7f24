// Package history keeps a bounded, time-ordered window of recent DSCD
// stats snapshots in memory, for the stats server's /api/history
// endpoint and its live chart.
package history

import (
	"sync"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
)

// Sample is one time-series data point. Numeric fields are float64 so
// they can be consumed directly by a charting library without a
// client-side conversion step.
type Sample struct {
	T          int64   `json:"t"`
	RateBps    float64 `json:"rate_bps"`
	ABEBacklog float64 `json:"abe_backlog"`
	BEBacklog  float64 `json:"be_backlog"`
	ABEDelayNs float64 `json:"abe_delay_ns"`
	BEDelayNs  float64 `json:"be_delay_ns"`
}

// Store is a thread-safe ring buffer of Samples.
type Store struct {
	mu       sync.RWMutex
	samples  []Sample
	head     int
	count    int
	capacity int

	prevABESent uint64
	prevABEDur  uint64
	prevBESent  uint64
	prevBEDur   uint64
}

// NewStore returns a Store holding up to capacity samples. capacity is
// clamped to at least 2, the same guard the ring buffer this is
// grounded on applies, so Record and Snapshot never work on a
// degenerate (zero-length) buffer.
func NewStore(capacity int) *Store {
	if capacity < 2 {
		capacity = 2
	}
	return &Store{
		samples:  make([]Sample, capacity),
		capacity: capacity,
	}
}

// Record appends one Sample derived from an engine stats snapshot,
// taken at unixSeconds. Average per-packet queueing delay for each
// class is computed from the delta in SumDelayNs/SentPackets since the
// previous Record call, so a long-lived counter doesn't flatten the
// visible trend over time.
func (s *Store) Record(unixSeconds int64, st dscd.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The first sample has no previous Record to take a delta against,
	// so its delays stay 0.
	var abeDelay, beDelay float64
	if s.count > 0 {
		abeDelay = deltaAvg(st.ABE.SumDelayNs, s.prevABEDur, st.ABE.SentPackets, s.prevABESent)
		beDelay = deltaAvg(st.BE.SumDelayNs, s.prevBEDur, st.BE.SentPackets, s.prevBESent)
	}
	s.prevABEDur, s.prevABESent = st.ABE.SumDelayNs, st.ABE.SentPackets
	s.prevBEDur, s.prevBESent = st.BE.SumDelayNs, st.BE.SentPackets

	s.samples[s.head] = Sample{
		T:          unixSeconds,
		RateBps:    float64(st.C),
		ABEBacklog: float64(st.ABEQueue.Length),
		BEBacklog:  float64(st.BEQueue.Length),
		ABEDelayNs: abeDelay,
		BEDelayNs:  beDelay,
	}
	s.head = (s.head + 1) % s.capacity
	if s.count < s.capacity {
		s.count++
	}
}

// Snapshot returns every retained sample in chronological order.
func (s *Store) Snapshot() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count == 0 {
		return nil
	}
	out := make([]Sample, s.count)
	if s.count < s.capacity {
		copy(out, s.samples[:s.count])
		return out
	}
	n := copy(out, s.samples[s.head:])
	copy(out[n:], s.samples[:s.head])
	return out
}

func deltaAvg(sumNow, sumPrev, countNow, countPrev uint64) float64 {
	if countNow <= countPrev || sumNow < sumPrev {
		return 0
	}
	return float64(sumNow-sumPrev) / float64(countNow-countPrev)
}
