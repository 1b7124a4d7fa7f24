package dscd

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Engine is one DSCD scheduler instance: the two flow queues, the
// virtual service queue, credit accounting, the rate estimator, and
// per-class stats. All exported methods lock the same mutex across
// their entire body, mirroring the kernel module's contract that the
// host stack holds an external lock across every qdisc operation — no
// method here may block on I/O or suspend while holding the lock, and
// none do.
type Engine struct {
	mu sync.Mutex

	cfg   Config
	clock Clock

	abe flowQueue
	be  flowQueue
	svc serviceQueue

	credit credit
	rate   rateEstimator

	abeStats ClassStats
	beStats  ClassStats
	allStats ClassStats

	backlogBytes uint64
	qlen         uint64

	allocFailedWarned bool
}

// NewEngine constructs an Engine from cfg, using clock as its time
// source. Pass nil for clock to use the real monotonic system clock.
func NewEngine(cfg Config, clock Clock) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	e := &Engine{
		cfg:   cfg,
		clock: clock,
	}
	e.svc.maxElement = cfg.MaxServiceElements
	if cfg.RateConfig != 0 {
		e.rate.c = cfg.RateConfig
	}
	return e, nil
}

// devaluate applies credit devaluation for the current instant. It must
// be called at the top of every Enqueue and Dequeue, before any other
// state is touched.
func (e *Engine) devaluate(now uint64) {
	if e.abe.lenPkts() == 0 && e.be.lenPkts() == 0 {
		// Nothing backlogged: drop every service element without
		// reclaiming its bytes into class credit, then bleed ABE credit
		// down linearly at the current drain rate so that resuming
		// traffic starts from a clean slate instead of spending credit
		// against imaginary deliveries.
		e.svc.drain()
		e.credit.ccCQ = 0
		if e.credit.lastDevaluation != 0 {
			e.credit.decrABE((now - e.credit.lastDevaluation) * e.rate.c / 1_000_000_000)
		}
	} else {
		e.credit.expDecay(now, e.cfg.CreditHalfLife)
	}
	e.credit.lastDevaluation = now
}

// Enqueue admits P into its class's flow queue, or drops it on
// admission failure. Returns ErrAdmissionExceeded or ErrAllocFailed;
// the caller is responsible for freeing/discarding P on error, the same
// way qdisc_drop hands the skb to to_free.
func (e *Engine) Enqueue(p Packet) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	isABE := p.ABE()
	now := e.clock.NowNanos()

	e.devaluate(now)

	total := uint64(p.Len()) + e.credit.ccCQ + e.credit.abeCreditBytes() + e.credit.ccBE
	if total > e.cfg.Limit {
		e.bumpEnqueueDrop(isABE)
		return ErrAdmissionExceeded
	}

	if err := e.svc.append(p.Len(), isABE); err != nil {
		if !e.allocFailedWarned {
			logrus.Warnf("dscd: service element could not be allocated (budget=%d); further warnings suppressed", e.cfg.MaxServiceElements)
			e.allocFailedWarned = true
		}
		e.bumpEnqueueDrop(isABE)
		return ErrAllocFailed
	}
	e.credit.incrCQ(uint64(p.Len()))

	flow := e.flowFor(isABE)
	flow.pushTail(queued{pkt: p, qTime: now})

	e.recordReceived(isABE)
	e.backlogBytes += uint64(p.Len())
	e.qlen++

	return nil
}

// bumpEnqueueDrop increments the class-specific and "all" enqueue-drop
// counters, mirroring the kernel module's DSCD_STAT_INC macro.
func (e *Engine) bumpEnqueueDrop(isABE bool) {
	if isABE {
		e.abeStats.EnqueueDrops++
	} else {
		e.beStats.EnqueueDrops++
	}
	e.allStats.EnqueueDrops++
}

func (e *Engine) recordReceived(isABE bool) {
	if isABE {
		e.abeStats.ReceivedPackets++
	} else {
		e.beStats.ReceivedPackets++
	}
	e.allStats.ReceivedPackets++
}

func (e *Engine) flowFor(isABE bool) *flowQueue {
	if isABE {
		return &e.abe
	}
	return &e.be
}

// Dequeue releases the next packet, or reports ok=false if nothing is
// eligible. It applies the ABE timeout-drop loop first, then the
// credit-gated selection loop.
func (e *Engine) Dequeue() (p Packet, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.NowNanos()
	e.devaluate(now)

	// ABE timeout drop loop. The matching service element is
	// deliberately left in place — it will be consumed later by the
	// selection loop below, handing its credit to whichever class is
	// dequeueing at that point. This is the mechanism by which an
	// overdue ABE packet's delay still benefits BE.
	for e.abe.lenPkts() > e.cfg.TQ {
		head := e.abe.peekHead()
		if head.qTime+e.cfg.TD >= now {
			break
		}
		dropped := e.abe.popHead()
		e.abeStats.DequeueDrops++
		e.allStats.DequeueDrops++
		e.backlogBytes -= uint64(dropped.pkt.Len())
		e.qlen--
	}

	if e.abe.lenPkts() == 0 && e.be.lenPkts() == 0 {
		return nil, false
	}

	var selected queued
	var selectedABE bool
	for {
		if e.abe.lenPkts() > 0 && e.credit.abeCreditBytes() >= uint64(e.abe.peekHead().pkt.Len()) {
			selected = e.abe.popHead()
			selectedABE = true
			e.credit.decrABE(uint64(selected.pkt.Len()))
			break
		}
		if e.be.lenPkts() > 0 && e.credit.ccBE >= uint64(e.be.peekHead().pkt.Len()) {
			selected = e.be.popHead()
			selectedABE = false
			e.credit.decrBE(uint64(selected.pkt.Len()))
			break
		}
		// Neither head has enough credit yet: pop the next service
		// element and transfer its bytes to the relevant class. This
		// always terminates because CC_cq strictly decreases each
		// iteration, and as long as a flow queue is non-empty the
		// service queue holds a matching entry whose release supplies
		// that queue's head with sufficient credit.
		el := e.svc.takeFront()
		e.credit.decrCQ(uint64(el.pktLen))
		if el.isABE {
			e.credit.incrABE(uint64(el.pktLen))
		} else {
			e.credit.incrBE(uint64(el.pktLen))
		}
	}

	// remainingQlen is measured before this dequeue's decrement, per
	// the kernel module's "> 1 instead of > 0" comment.
	e.rate.onDequeue(now, e.cfg.RateConfig, e.cfg.RateMemory, selected.pkt.Len(), e.qlen)

	e.backlogBytes -= uint64(selected.pkt.Len())
	e.qlen--

	qDelay := now - selected.qTime
	if selectedABE {
		e.abeStats.SumDelayNs += qDelay
		e.abeStats.SentPackets++
	} else {
		e.beStats.SumDelayNs += qDelay
		e.beStats.SentPackets++
	}
	e.allStats.SumDelayNs += qDelay
	e.allStats.SentPackets++

	return selected.pkt, true
}

// Reset purges both flow queues and the service queue and clears all
// counters and estimator state. If RateConfig == 0, the rate estimate C
// is also zeroed.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.abe.drain()
	e.be.drain()
	e.svc.drain()

	e.credit = credit{}
	e.rate.reset(e.cfg.RateConfig)

	e.abeStats = ClassStats{}
	e.beStats = ClassStats{}
	e.allStats = ClassStats{}

	e.backlogBytes = 0
	e.qlen = 0
	e.allocFailedWarned = false
}

// Destroy frees the service queue. Flow queues are assumed already
// purged by a preceding Reset, matching the kernel module's contract
// between dscd_reset and dscd_destroy.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.svc.drain()
}

// Change applies a sparse reconfiguration atomically. If the merged
// configuration is invalid, no state is mutated and ErrInvalidConfig is
// returned.
func (e *Engine) Change(p PartialConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	merged := p.applyTo(e.cfg)
	merged.MaxServiceElements = e.cfg.MaxServiceElements
	if err := merged.Validate(); err != nil {
		return fmt.Errorf("dscd: change rejected: %w", err)
	}
	e.cfg = merged
	e.svc.maxElement = merged.MaxServiceElements
	if merged.RateConfig != 0 {
		e.rate.c = merged.RateConfig
	}
	return nil
}

// DumpConfig returns the engine's current configuration.
func (e *Engine) DumpConfig() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// DumpStats returns the fixed-layout stats payload.
func (e *Engine) DumpStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		C:   e.rate.c,
		Sb:  e.rate.sb,
		St:  e.rate.st,
		ABE: e.abeStats,
		BE:  e.beStats,
		All: e.allStats,
		ABEQueue: QueueStats{
			Length: e.abe.lenPkts(),
			Credit: e.credit.abeCreditBytes(),
		},
		BEQueue: QueueStats{
			Length: e.be.lenPkts(),
			Credit: e.credit.ccBE,
		},
		ServiceQueue: QueueStats{
			Length: uint64(e.svc.len()),
			Credit: e.credit.ccCQ,
		},
	}
}

// Backlog returns the host-visible queue length (packets) and backlog
// size (bytes) across both classes, analogous to sch->q.qlen and
// sch->qstats.backlog in the kernel module.
func (e *Engine) Backlog() (qlen, bytes uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.qlen, e.backlogBytes
}
