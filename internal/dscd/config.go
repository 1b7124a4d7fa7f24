package dscd

import "fmt"

// Config holds the six runtime-tunable parameters. Field names match
// the attribute naming this repo standardizes on (see SPEC_FULL.md)
// rather than either historical CLI naming variant.
type Config struct {
	Limit          uint64 // bytes; admission ceiling
	RateConfig     uint64 // bytes/sec; 0 means estimate online
	CreditHalfLife uint64 // ns; CC_abe exponential decay half-life
	RateMemory     uint64 // ns; rate estimator EWMA memory
	TD             uint64 // ns; ABE head-of-line delay drop threshold
	TQ             uint64 // count; ABE queue length below which no drops occur

	// MaxServiceElements bounds the service queue so ErrAllocFailed has
	// a reachable trigger in a runtime that can't fail a slice append
	// the way kzalloc can fail. 0 means unbounded. See service_queue.go.
	MaxServiceElements int
}

// DefaultConfig returns the parameter defaults applied at qdisc init:
// T_d=10ms, credit_half_life=100ms, rate_memory=100ms, rate_config=0
// (estimate), T_q=1. limit has no fixed default in a
// kernel-free context — there is no tx_queue_len/mtu to derive it from —
// so callers must set Limit explicitly; DefaultConfig leaves it 0 and
// NewEngine rejects a zero limit.
func DefaultConfig() Config {
	return Config{
		RateConfig:     0,
		CreditHalfLife: 100 * 1_000_000,
		RateMemory:     100 * 1_000_000,
		TD:             10 * 1_000_000,
		TQ:             1,
	}
}

// Validate checks that a Config is self-consistent enough to construct
// an Engine: the divisors used by devaluation and rate estimation must
// be non-zero, or a live engine would divide by zero on its first
// packet.
func (c Config) Validate() error {
	if c.Limit == 0 {
		return fmt.Errorf("%w: limit must be > 0", ErrInvalidConfig)
	}
	if c.CreditHalfLife == 0 {
		return fmt.Errorf("%w: credit_half_life must be > 0", ErrInvalidConfig)
	}
	if c.RateMemory == 0 {
		return fmt.Errorf("%w: rate_memory must be > 0", ErrInvalidConfig)
	}
	return nil
}

// PartialConfig is a sparse set of configuration fields for Change: nil
// fields are left untouched. Applying a PartialConfig is atomic under
// the engine's mutex.
type PartialConfig struct {
	Limit          *uint64
	RateConfig     *uint64
	CreditHalfLife *uint64
	RateMemory     *uint64
	TD             *uint64
	TQ             *uint64
}

// applyTo merges p onto cfg, returning the merged result. It does not
// validate; callers validate the merged Config before committing it.
func (p PartialConfig) applyTo(cfg Config) Config {
	if p.Limit != nil {
		cfg.Limit = *p.Limit
	}
	if p.RateConfig != nil {
		cfg.RateConfig = *p.RateConfig
	}
	if p.CreditHalfLife != nil {
		cfg.CreditHalfLife = *p.CreditHalfLife
	}
	if p.RateMemory != nil {
		cfg.RateMemory = *p.RateMemory
	}
	if p.TD != nil {
		cfg.TD = *p.TD
	}
	if p.TQ != nil {
		cfg.TQ = *p.TQ
	}
	return cfg
}
