package tcattr

import "testing"

func u64(v uint64) *uint64 { return &v }
func u32(v uint32) *uint32 { return &v }

func TestConfigRoundTripAllFields(t *testing.T) {
	cfg := Config{
		Limit:          u32(100_000),
		Rate:           u64(10_000_000),
		CreditHalfLife: u64(100_000_000),
		RateMemory:     u64(100_000_000),
		TD:             u64(10_000_000),
		TQ:             u64(1),
	}
	b, err := EncodeConfig(cfg)
	if err != nil {
		t.Fatalf("EncodeConfig: %v", err)
	}
	got, err := DecodeConfig(b)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if got.Limit == nil {
		t.Fatalf("Limit: missing after round trip")
	}
	if *cfg.Limit != *got.Limit {
		t.Errorf("Limit = %d, want %d", *got.Limit, *cfg.Limit)
	}
	for name, pair := range map[string][2]*uint64{
		"Rate":           {cfg.Rate, got.Rate},
		"CreditHalfLife": {cfg.CreditHalfLife, got.CreditHalfLife},
		"RateMemory":     {cfg.RateMemory, got.RateMemory},
		"TD":             {cfg.TD, got.TD},
		"TQ":             {cfg.TQ, got.TQ},
	} {
		if pair[1] == nil {
			t.Fatalf("%s: missing after round trip", name)
		}
		if *pair[0] != *pair[1] {
			t.Errorf("%s = %d, want %d", name, *pair[1], *pair[0])
		}
	}
}

func TestConfigRoundTripSparse(t *testing.T) {
	cfg := Config{Limit: u32(5000)}
	b, err := EncodeConfig(cfg)
	if err != nil {
		t.Fatalf("EncodeConfig: %v", err)
	}
	got, err := DecodeConfig(b)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if got.Limit == nil || *got.Limit != 5000 {
		t.Fatalf("Limit = %v, want 5000", got.Limit)
	}
	if got.Rate != nil || got.CreditHalfLife != nil || got.RateMemory != nil || got.TD != nil || got.TQ != nil {
		t.Errorf("expected all other fields nil, got %+v", got)
	}
}

func TestStatsRoundTrip(t *testing.T) {
	s := Stats{
		C: 1_000_000, Sb: 42, St: 7,
		ABE:          ClassStats{SumDelay: 1, ReceivedPackets: 2, SentPackets: 3, EnqueueDrops: 4, DequeueDrops: 5},
		BE:           ClassStats{SumDelay: 6, ReceivedPackets: 7, SentPackets: 8, EnqueueDrops: 9, DequeueDrops: 10},
		All:          ClassStats{SumDelay: 11, ReceivedPackets: 12, SentPackets: 13, EnqueueDrops: 14, DequeueDrops: 15},
		ABEQueue:     QueueStats{Length: 16, Credit: 17},
		BEQueue:      QueueStats{Length: 18, Credit: 19},
		ServiceQueue: QueueStats{Length: 20, Credit: 21},
	}
	b, err := EncodeStats(s)
	if err != nil {
		t.Fatalf("EncodeStats: %v", err)
	}
	got, err := DecodeStats(b)
	if err != nil {
		t.Fatalf("DecodeStats: %v", err)
	}
	if got != s {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, s)
	}
}

func TestDecodeStatsShortBufferErrors(t *testing.T) {
	if _, err := DecodeStats(make([]byte, 10)); err == nil {
		t.Fatal("expected an error for a too-short buffer")
	}
}
