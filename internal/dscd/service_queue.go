package dscd

// serviceElement is a single entry in the virtual service queue: the
// length and class of one packet, in the order it was enqueued across
// both classes. It is freed either by the dequeue path (which converts
// it into credit for its class) or en masse on reset/drain.
type serviceElement struct {
	pktLen uint32
	isABE  bool
}

// serviceQueue is the ordered log of service elements, invariant
// Σ pktLen == CC_cq (tracked separately on the accountant, not here, so
// the invariant can be asserted independently in tests).
//
// The kernel module backs this with an intrusive doubly-linked list and
// kzalloc per element, so that append can fail under memory pressure
// (§4.2's AllocFailed). Go has no equivalent failure mode for a plain
// slice append — allocation failure there is a fatal OOM, not a
// recoverable error — so AllocFailed is kept reachable (and testable) by
// bounding the queue at maxElement, a stand-in for the kernel's memory
// ceiling, set from Config.MaxServiceElements.
type serviceQueue struct {
	items      []serviceElement
	maxElement int
}

// append pushes a new service element onto the tail. It fails with
// ErrAllocFailed once the queue is at its element budget.
func (s *serviceQueue) append(pktLen uint32, isABE bool) error {
	if s.maxElement > 0 && len(s.items) >= s.maxElement {
		return ErrAllocFailed
	}
	s.items = append(s.items, serviceElement{pktLen: pktLen, isABE: isABE})
	return nil
}

// takeFront pops the front element. Infallible when non-empty; callers
// must check length first.
func (s *serviceQueue) takeFront() serviceElement {
	e := s.items[0]
	s.items = s.items[1:]
	return e
}

func (s *serviceQueue) len() int {
	return len(s.items)
}

// drain frees all service elements without reclaiming their bytes into
// class credit — used by Destroy, and by the "both flow queues empty"
// branch of devaluation which explicitly skips reclaim (§4.3).
func (s *serviceQueue) drain() {
	s.items = nil
}
