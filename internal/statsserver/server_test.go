package statsserver

import (
	"strings"
	"testing"
	"time"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
)

func TestBuildSSEEventFraming(t *testing.T) {
	event := buildSSEEvent([]byte(`{"c":1}`))
	s := string(event)
	if !strings.HasPrefix(s, "retry: 2000\ndata: ") {
		t.Fatalf("missing SSE preamble: %q", s)
	}
	if !strings.HasSuffix(s, "{\"c\":1}\n\n") {
		t.Fatalf("missing payload/terminator: %q", s)
	}
}

func TestForcePollRecordsStatsAndHistory(t *testing.T) {
	clk := &dscd.ManualClock{}
	cfg := dscd.DefaultConfig()
	cfg.Limit = 100_000
	cfg.RateConfig = 10_000_000
	engine, err := dscd.NewEngine(cfg, clk)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Enqueue(dscd.NewSimplePacket(500, false)); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	s := New(engine, time.Second, 16)
	s.forcePoll()

	s.statsMu.RLock()
	st := s.stats
	s.statsMu.RUnlock()
	if st.BEQueue.Length != 1 {
		t.Errorf("stats.BEQueue.Length = %d, want 1", st.BEQueue.Length)
	}

	snap := s.history.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("len(history snapshot) = %d, want 1", len(snap))
	}
}
