package dscd

// rateEstimator tracks the online drain-rate estimate C (bytes/sec)
// from observed dequeue cadence. It is only updated when the engine's
// rate is unconfigured (RateConfig == 0) and the link was continuously
// backlogged at the previous dequeue.
type rateEstimator struct {
	c uint64 // current estimate, bytes/sec

	sb uint64 // exponentially-weighted byte sum
	st uint64 // exponentially-weighted nanosecond sum

	lastRateUpdate uint64
	lastPacketDeq  uint64
	lastPacketSize uint64
	backlogged     bool
}

// onDequeue updates the estimate for one dequeued packet of pktLen bytes
// when rateConfig == 0, then always records the bookkeeping fields used
// to decide whether the link stayed backlogged. remainingQlen is the
// queue length measured *before* decrementing for this dequeue,
// matching the kernel module's comment that q.qlen isn't decremented
// yet at this point.
func (r *rateEstimator) onDequeue(now uint64, rateConfig uint64, rateMemory uint64, pktLen uint32, remainingQlen uint64) {
	if rateConfig == 0 {
		if r.backlogged {
			diffRateUpdate := now - r.lastRateUpdate
			diffDequeue := now - r.lastPacketDeq

			// y = diff / rate_memory / ln(2) * 2^20, s = 20
			y := (diffRateUpdate * 5909 << 8) / rateMemory

			r.sb = nPow2(r.sb, y, 20) + r.lastPacketSize
			r.st = nPow2(r.st, y, 20) + diffDequeue
			r.c = (r.sb * 1_000_000_000) / r.st

			r.lastRateUpdate = now
		}
		r.lastPacketDeq = now
		// "> 1" rather than "> 0": remainingQlen is measured before this
		// dequeue's decrement, so a queue of exactly 1 before it drains
		// to empty after it.
		r.backlogged = remainingQlen > 1
		r.lastPacketSize = uint64(pktLen)
	}
}

// reset clears all estimator state. If rateConfig == 0, the rate
// estimate C is also zeroed; otherwise it is left at the configured
// value.
func (r *rateEstimator) reset(rateConfig uint64) {
	*r = rateEstimator{}
	if rateConfig != 0 {
		r.c = rateConfig
	}
}
