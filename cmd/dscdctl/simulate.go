package dscdctl

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
)

var (
	simLimit          uint64
	simRate           uint64
	simCreditHalfLife uint64
	simRateMemory     uint64
	simTD             uint64
	simTQ             uint64

	simHorizonNs  int64
	simArrivalHz  float64
	simABEFrac    float64
	simMeanPktLen int
	simSeed       int64
	simDequeueHz  float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive an in-process Engine with synthetic Poisson-arrival traffic",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Uint64Var(&simLimit, "limit", 100_000, "Admission ceiling in bytes")
	simulateCmd.Flags().Uint64Var(&simRate, "rate", 0, "Configured drain rate in bytes/sec (0 = estimate online)")
	simulateCmd.Flags().Uint64Var(&simCreditHalfLife, "credit-half-life", 100_000_000, "ABE credit exponential decay half-life in nanoseconds")
	simulateCmd.Flags().Uint64Var(&simRateMemory, "rate-memory", 100_000_000, "Rate estimator EWMA memory in nanoseconds")
	simulateCmd.Flags().Uint64Var(&simTD, "t-d", 10_000_000, "ABE head-of-line delay drop threshold in nanoseconds")
	simulateCmd.Flags().Uint64Var(&simTQ, "t-q", 1, "ABE queue length below which no timeout drops occur")

	simulateCmd.Flags().Int64Var(&simHorizonNs, "horizon", 1_000_000_000, "Simulation horizon in nanoseconds")
	simulateCmd.Flags().Float64Var(&simArrivalHz, "arrival-rate", 2000, "Poisson packet arrival rate in packets/sec")
	simulateCmd.Flags().Float64Var(&simABEFrac, "abe-fraction", 0.2, "Fraction of arrivals marked ABE")
	simulateCmd.Flags().IntVar(&simMeanPktLen, "mean-packet-len", 1000, "Mean packet length in bytes")
	simulateCmd.Flags().Float64Var(&simDequeueHz, "dequeue-rate", 2500, "Dequeue attempt rate in attempts/sec")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "Random seed")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg := dscd.Config{
		Limit:          simLimit,
		RateConfig:     simRate,
		CreditHalfLife: simCreditHalfLife,
		RateMemory:     simRateMemory,
		TD:             simTD,
		TQ:             simTQ,
	}

	clk := &dscd.ManualClock{}
	engine, err := dscd.NewEngine(cfg, clk)
	if err != nil {
		return fmt.Errorf("dscdctl: construct engine: %w", err)
	}

	rng := rand.New(rand.NewSource(simSeed))

	nextArrivalGap := func() int64 { return poissonGapNs(rng, simArrivalHz) }
	nextDequeueGap := func() int64 { return poissonGapNs(rng, simDequeueHz) }

	nextArrival := nextArrivalGap()
	nextDequeue := nextDequeueGap()
	var sent, dropped uint64

	for {
		next := nextArrival
		if nextDequeue < next {
			next = nextDequeue
		}
		if next >= simHorizonNs {
			break
		}
		clk.Set(uint64(next))

		if next == nextArrival {
			isABE := rng.Float64() < simABEFrac
			length := poissonPacketLen(rng, simMeanPktLen)
			if err := engine.Enqueue(dscd.NewSimplePacket(length, isABE)); err != nil {
				dropped++
			}
			nextArrival += nextArrivalGap()
		}
		if next == nextDequeue {
			if _, ok := engine.Dequeue(); ok {
				sent++
			}
			nextDequeue += nextDequeueGap()
		}
	}

	logrus.WithFields(logrus.Fields{
		"sent":    sent,
		"dropped": dropped,
		"horizon": simHorizonNs,
	}).Info("dscdctl: simulation complete")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(engine.DumpStats())
}

// poissonGapNs draws one interarrival gap in nanoseconds for a Poisson
// process of the given rate in events/sec.
func poissonGapNs(rng *rand.Rand, ratePerSec float64) int64 {
	if ratePerSec <= 0 {
		return math.MaxInt64
	}
	u := rng.Float64()
	if u <= 0 {
		u = 1e-12
	}
	return int64(-math.Log(u) / ratePerSec * 1e9)
}

// poissonPacketLen draws a packet length with the given mean, clamped
// to a minimum of 64 bytes (a plausible smallest on-wire frame).
func poissonPacketLen(rng *rand.Rand, mean int) uint32 {
	u := rng.Float64()
	if u <= 0 {
		u = 1e-12
	}
	length := int(-math.Log(u) * float64(mean))
	if length < 64 {
		length = 64
	}
	return uint32(length)
}
