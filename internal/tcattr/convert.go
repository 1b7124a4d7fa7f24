package tcattr

import "github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"

// FromEngineConfig converts a fully-populated engine Config into a wire
// Config with every field set, for emitting the current configuration
// on a stats dump. Limit narrows from uint64 to uint32 here, matching
// TCA_DSCD_LIMIT's NLA_U32 wire width.
func FromEngineConfig(cfg dscd.Config) Config {
	limit := uint32(cfg.Limit)
	return Config{
		Limit:          &limit,
		Rate:           &cfg.RateConfig,
		CreditHalfLife: &cfg.CreditHalfLife,
		RateMemory:     &cfg.RateMemory,
		TD:             &cfg.TD,
		TQ:             &cfg.TQ,
	}
}

// ToPartialConfig converts a decoded wire Config, which may have only
// some fields set, into a dscd.PartialConfig suitable for Engine.Change.
// Limit widens from the wire's uint32 back to dscd.Config's uint64.
func ToPartialConfig(c Config) dscd.PartialConfig {
	p := dscd.PartialConfig{
		RateConfig:     c.Rate,
		CreditHalfLife: c.CreditHalfLife,
		RateMemory:     c.RateMemory,
		TD:             c.TD,
		TQ:             c.TQ,
	}
	if c.Limit != nil {
		limit := uint64(*c.Limit)
		p.Limit = &limit
	}
	return p
}

// FromEngineStats converts a dscd.Stats snapshot into its wire form.
func FromEngineStats(s dscd.Stats) Stats {
	conv := func(c dscd.ClassStats) ClassStats {
		return ClassStats{
			SumDelay:        c.SumDelayNs,
			ReceivedPackets: c.ReceivedPackets,
			SentPackets:     c.SentPackets,
			EnqueueDrops:    c.EnqueueDrops,
			DequeueDrops:    c.DequeueDrops,
		}
	}
	convQ := func(q dscd.QueueStats) QueueStats {
		return QueueStats{Length: q.Length, Credit: q.Credit}
	}
	return Stats{
		C:            s.C,
		Sb:           s.Sb,
		St:           s.St,
		ABE:          conv(s.ABE),
		BE:           conv(s.BE),
		All:          conv(s.All),
		ABEQueue:     convQ(s.ABEQueue),
		BEQueue:      convQ(s.BEQueue),
		ServiceQueue: convQ(s.ServiceQueue),
	}
}
