package dscd

// ClassStats are the per-class counters: cumulative delay, and packet
// counts for admission/service/drops. One instance each for ABE, BE,
// and the "all" aggregate.
type ClassStats struct {
	SumDelayNs      uint64
	ReceivedPackets uint64
	SentPackets     uint64
	EnqueueDrops    uint64
	DequeueDrops    uint64
}

// QueueStats is the length/credit pair reported for each of the three
// queues (ABE flow, BE flow, service queue). Credit is always the
// unscaled byte view, even for the ABE queue where the internal counter
// is scaled by abeCreditShift.
type QueueStats struct {
	Length uint64
	Credit uint64
}

// Stats is the fixed-layout stats payload emitted on dump, matching
// struct tc_dscd_xstats field for field.
type Stats struct {
	C   uint64
	Sb  uint64
	St  uint64
	ABE ClassStats
	BE  ClassStats
	All ClassStats

	ABEQueue     QueueStats
	BEQueue      QueueStats
	ServiceQueue QueueStats
}
