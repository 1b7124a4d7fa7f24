// Package dscd implements the Dynamic Service-Credit Distribution (DSCD)
// scheduler: a two-class (ABE/BE) egress queueing discipline that bounds
// ABE queueing delay without starving BE, adapting to a configured or
// estimated drain rate.
package dscd

// Packet is an opaque handle to a network packet, as owned by whatever
// host networking stack calls Enqueue/Dequeue. The engine never inspects
// payload; classification is solely by ABE().
type Packet interface {
	// Len reports the packet's on-wire length in bytes.
	Len() uint32
	// ABE reports whether the packet carries the interactive priority
	// marker. False means best-effort (BE).
	ABE() bool
}

// SimplePacket is a minimal Packet implementation for synthetic traffic
// generators (the CLI's simulate command) and tests, where there's no
// real host stack handing in a captured packet.
type SimplePacket struct {
	length uint32
	abe    bool
}

// NewSimplePacket returns a Packet of the given length and class.
func NewSimplePacket(length uint32, abe bool) SimplePacket {
	return SimplePacket{length: length, abe: abe}
}

// Len implements Packet.
func (p SimplePacket) Len() uint32 { return p.length }

// ABE implements Packet.
func (p SimplePacket) ABE() bool { return p.abe }

// queued wraps a caller-owned Packet with the scheduler-private enqueue
// timestamp (q_time). The kernel module stores q_time as a settable
// field on the packet itself; wrapping keeps Packet a read-only interface
// so callers can use their own packet types without adding scheduler
// bookkeeping to them.
type queued struct {
	pkt   Packet
	qTime uint64
}
