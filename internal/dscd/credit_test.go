package dscd

import "testing"

// TestNPow2ZeroYIsIdentity verifies N_POW2(n, 0, s) == n for all s >= 12.
func TestNPow2ZeroYIsIdentity(t *testing.T) {
	for _, s := range []uint64{12, 16, 20, 24} {
		for _, n := range []uint64{0, 1, 1000, 1 << 40} {
			if got := nPow2(n, 0, s); got != n {
				t.Errorf("nPow2(%d, 0, %d) = %d, want %d", n, s, got, n)
			}
		}
	}
}

// TestNPow2MonotonicNonIncreasing verifies N_POW2(n, y, s) is
// monotonically non-increasing in y.
func TestNPow2MonotonicNonIncreasing(t *testing.T) {
	n := uint64(1_000_000)
	s := uint64(20)
	prev := nPow2(n, 0, s)
	for y := uint64(1 << 10); y <= uint64(25)<<s; y += 1 << 14 {
		cur := nPow2(n, y, s)
		if cur > prev {
			t.Fatalf("nPow2 increased: y=%d prev=%d cur=%d", y, prev, cur)
		}
		prev = cur
	}
}

// TestNPow2UnderflowsToZero verifies N_POW2 returns 0 once y >> s >= 20
// half-lives have elapsed.
func TestNPow2UnderflowsToZero(t *testing.T) {
	s := uint64(20)
	y := uint64(20) << s
	if got := nPow2(1_000_000, y, s); got != 0 {
		t.Errorf("nPow2 at 20 half-lives = %d, want 0", got)
	}
	y = uint64(100) << s
	if got := nPow2(1_000_000, y, s); got != 0 {
		t.Errorf("nPow2 at 100 half-lives = %d, want 0", got)
	}
}

// TestNPow2HalvesAtOneHalfLife spot-checks that a full half-life roughly
// halves n, within the precision the piecewise integer approximation
// allows.
func TestNPow2HalvesAtOneHalfLife(t *testing.T) {
	s := uint64(20)
	n := uint64(1_000_000)
	y := uint64(1) << s // y_unscaled == 1, i.e. exactly one half-life
	got := nPow2(n, y, s)
	want := n / 2
	diff := int64(got) - int64(want)
	if diff < 0 {
		diff = -diff
	}
	if uint64(diff) > want/50 { // within 2%
		t.Errorf("nPow2 at one half-life = %d, want ~%d", got, want)
	}
}

// TestDecrABEClampsAtZero verifies the "+1" rounding guard never
// underflows CC_abe.
func TestDecrABEClampsAtZero(t *testing.T) {
	var c credit
	c.incrABE(100)
	c.decrABE(150) // more than available
	if c.ccABE != 0 {
		t.Errorf("CC_abe = %d after over-decrement, want 0", c.ccABE)
	}
}

// TestIncrDecrABERoundTrip verifies the scaled/unscaled byte view stays
// consistent across incr/decr pairs.
func TestIncrDecrABERoundTrip(t *testing.T) {
	var c credit
	c.incrABE(500)
	if got := c.abeCreditBytes(); got != 500 {
		t.Errorf("abeCreditBytes() = %d, want 500", got)
	}
	c.decrABE(200)
	if got := c.abeCreditBytes(); got != 300 {
		t.Errorf("abeCreditBytes() = %d, want 300", got)
	}
}

// TestExpDecayFirstCallSeedsOnly verifies the first exp_decay call only
// sets lastExpDevaluation and leaves CC_abe untouched.
func TestExpDecayFirstCallSeedsOnly(t *testing.T) {
	var c credit
	c.incrABE(1000)
	c.expDecay(5000, 100_000_000)
	if c.ccABE>>abeCreditShift != 1000 {
		t.Errorf("CC_abe changed on first exp_decay call")
	}
	if c.lastExpDevaluation != 5000 {
		t.Errorf("lastExpDevaluation = %d, want 5000", c.lastExpDevaluation)
	}
}

// TestExpDecayIdempotentSameNow verifies calling expDecay twice with an
// identical now is a no-op the second time.
func TestExpDecayIdempotentSameNow(t *testing.T) {
	var c credit
	c.incrABE(10_000)
	c.expDecay(0, 100_000_000) // seed
	c.expDecay(50_000_000, 100_000_000)
	after1 := c.ccABE
	c.expDecay(50_000_000, 100_000_000)
	if c.ccABE != after1 {
		t.Errorf("second expDecay at same now changed CC_abe: %d -> %d", after1, c.ccABE)
	}
}
