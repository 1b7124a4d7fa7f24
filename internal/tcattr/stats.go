package tcattr

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ClassStats mirrors struct tc_dscd_class_stats: one instance each for
// ABE, BE, and the aggregate "all" class.
type ClassStats struct {
	SumDelay        uint64
	ReceivedPackets uint64
	SentPackets     uint64
	EnqueueDrops    uint64
	DequeueDrops    uint64
}

// QueueStats mirrors struct tc_dscd_q_stats.
type QueueStats struct {
	Length uint64
	Credit uint64
}

// Stats mirrors struct tc_dscd_xstats field for field. Unlike Config,
// this isn't a nested set of TLV attributes: the kernel module copies
// this struct's raw bytes into the TCA_STATS_APP/TCA_XSTATS attribute
// payload, the same way every other qdisc's xstats blob works, so the
// wire format here is a flat native-endian struct, not a TLV stream.
type Stats struct {
	C            uint64
	Sb           uint64
	St           uint64
	ABE          ClassStats
	BE           ClassStats
	All          ClassStats
	ABEQueue     QueueStats
	BEQueue      QueueStats
	ServiceQueue QueueStats
}

// EncodeStats serializes s as the raw struct tc_dscd_xstats byte layout,
// in the host's native byte order (binary.NativeEndian), matching how
// the kernel copies its in-memory struct directly into the netlink
// attribute payload without any byte-swapping.
func EncodeStats(s Stats) ([]byte, error) {
	var buf bytes.Buffer
	fields := []uint64{
		s.C, s.Sb, s.St,
		s.ABE.SumDelay, s.ABE.ReceivedPackets, s.ABE.SentPackets, s.ABE.EnqueueDrops, s.ABE.DequeueDrops,
		s.BE.SumDelay, s.BE.ReceivedPackets, s.BE.SentPackets, s.BE.EnqueueDrops, s.BE.DequeueDrops,
		s.All.SumDelay, s.All.ReceivedPackets, s.All.SentPackets, s.All.EnqueueDrops, s.All.DequeueDrops,
		s.ABEQueue.Length, s.ABEQueue.Credit,
		s.BEQueue.Length, s.BEQueue.Credit,
		s.ServiceQueue.Length, s.ServiceQueue.Credit,
	}
	for _, f := range fields {
		if err := binary.Write(&buf, binary.NativeEndian, f); err != nil {
			return nil, fmt.Errorf("tcattr: encode stats: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeStats parses a struct tc_dscd_xstats byte blob back into Stats.
func DecodeStats(b []byte) (Stats, error) {
	const numFields = 24
	if len(b) < numFields*8 {
		return Stats{}, fmt.Errorf("tcattr: decode stats: short buffer (%d bytes, want %d)", len(b), numFields*8)
	}
	r := bytes.NewReader(b)
	var f [numFields]uint64
	for i := range f {
		if err := binary.Read(r, binary.NativeEndian, &f[i]); err != nil {
			return Stats{}, fmt.Errorf("tcattr: decode stats: %w", err)
		}
	}
	return Stats{
		C: f[0], Sb: f[1], St: f[2],
		ABE: ClassStats{SumDelay: f[3], ReceivedPackets: f[4], SentPackets: f[5], EnqueueDrops: f[6], DequeueDrops: f[7]},
		BE:  ClassStats{SumDelay: f[8], ReceivedPackets: f[9], SentPackets: f[10], EnqueueDrops: f[11], DequeueDrops: f[12]},
		All: ClassStats{SumDelay: f[13], ReceivedPackets: f[14], SentPackets: f[15], EnqueueDrops: f[16], DequeueDrops: f[17]},
		ABEQueue:     QueueStats{Length: f[18], Credit: f[19]},
		BEQueue:      QueueStats{Length: f[20], Credit: f[21]},
		ServiceQueue: QueueStats{Length: f[22], Credit: f[23]},
	}, nil
}
