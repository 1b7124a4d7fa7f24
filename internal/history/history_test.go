package history

import (
	"testing"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
)

func BenchmarkStoreRecord(b *testing.B) {
	store := NewStore(64)
	st := dscd.Stats{C: 1_000_000}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Record(int64(i), st)
	}
}

func TestSnapshotEmptyBeforeAnyRecord(t *testing.T) {
	store := NewStore(4)
	if got := store.Snapshot(); got != nil {
		t.Fatalf("expected nil snapshot before any Record, got %v", got)
	}
}

func TestSnapshotOrdersChronologicallyBelowCapacity(t *testing.T) {
	store := NewStore(5)
	for i := int64(1); i <= 3; i++ {
		store.Record(i, dscd.Stats{C: uint64(i) * 100})
	}
	snap := store.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len(snap) = %d, want 3", len(snap))
	}
	for i, s := range snap {
		if s.T != int64(i+1) {
			t.Errorf("snap[%d].T = %d, want %d", i, s.T, i+1)
		}
	}
}

func TestSnapshotWrapsAtCapacity(t *testing.T) {
	store := NewStore(3)
	for i := int64(1); i <= 5; i++ {
		store.Record(i, dscd.Stats{C: uint64(i)})
	}
	snap := store.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len(snap) = %d, want 3", len(snap))
	}
	want := []int64{3, 4, 5}
	for i, s := range snap {
		if s.T != want[i] {
			t.Errorf("snap[%d].T = %d, want %d", i, s.T, want[i])
		}
	}
}

func TestDeltaDelayAveragesOverNewPacketsOnly(t *testing.T) {
	store := NewStore(4)
	store.Record(1, dscd.Stats{
		ABE: dscd.ClassStats{SumDelayNs: 1000, SentPackets: 10},
	})
	snap := store.Snapshot()
	if snap[0].ABEDelayNs != 0 {
		t.Errorf("first sample ABEDelayNs = %v, want 0 (no prior baseline)", snap[0].ABEDelayNs)
	}

	store.Record(2, dscd.Stats{
		ABE: dscd.ClassStats{SumDelayNs: 1000 + 500, SentPackets: 15},
	})
	snap = store.Snapshot()
	if got, want := snap[1].ABEDelayNs, 100.0; got != want {
		t.Errorf("second sample ABEDelayNs = %v, want %v", got, want)
	}
}

func TestNewStoreClampsSmallCapacity(t *testing.T) {
	store := NewStore(0)
	if store.capacity != 2 {
		t.Errorf("capacity = %d, want clamp to 2", store.capacity)
	}
}
