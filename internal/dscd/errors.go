package dscd

import "errors"

// Sentinel errors for the scheduler's drop/reject paths. Check with
// errors.Is; an ABE timeout drop is never surfaced as an error — it
// only drives the internal ABE dequeue-drop loop and its stats counters.
var (
	// ErrAdmissionExceeded is returned by Enqueue when admitting the
	// packet would push the accounted byte total above the configured
	// limit. The packet is dropped and counted under its class and all.
	ErrAdmissionExceeded = errors.New("dscd: admission limit exceeded")

	// ErrAllocFailed is returned by Enqueue when the service queue has
	// reached its element budget. It mirrors the kernel module's
	// kzalloc failure path; see Config.MaxServiceElements.
	ErrAllocFailed = errors.New("dscd: service element allocation failed")

	// ErrInvalidConfig is returned by Change when a reconfiguration
	// option is missing or malformed. No state is mutated.
	ErrInvalidConfig = errors.New("dscd: invalid configuration")
)
