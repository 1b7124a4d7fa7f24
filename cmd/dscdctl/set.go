package dscdctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/tcattr"
)

var (
	setLimit      uint32
	setRate       uint64
	setHasLimit   bool
	setHasRate    bool
	setConfigPath string
	setQdiscName  string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Apply a sparse reconfiguration to a freshly constructed engine and print the result",
	RunE:  runSet,
}

func init() {
	setCmd.Flags().StringVar(&setConfigPath, "config", "", "Path to a YAML qdisc preset file")
	setCmd.Flags().StringVar(&setQdiscName, "name", "", "Name of the preset within --config")
	setCmd.Flags().Uint32Var(&setLimit, "limit", 0, "New admission ceiling in bytes")
	setCmd.Flags().Uint64Var(&setRate, "rate", 0, "New configured drain rate in bytes/sec")
	_ = setCmd.MarkFlagRequired("config")
	_ = setCmd.MarkFlagRequired("name")

	setCmd.PreRun = func(cmd *cobra.Command, args []string) {
		setHasLimit = cmd.Flags().Changed("limit")
		setHasRate = cmd.Flags().Changed("rate")
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig(setConfigPath, setQdiscName)
	if err != nil {
		return err
	}

	engine, err := dscd.NewEngine(cfg, nil)
	if err != nil {
		return fmt.Errorf("dscdctl: construct engine: %w", err)
	}

	wire := tcattr.Config{}
	if setHasLimit {
		wire.Limit = &setLimit
	}
	if setHasRate {
		wire.Rate = &setRate
	}

	if err := engine.Change(tcattr.ToPartialConfig(wire)); err != nil {
		return fmt.Errorf("dscdctl: change rejected: %w", err)
	}

	applied := engine.DumpConfig()
	fmt.Printf("limit=%d rate=%d credit_half_life=%d rate_memory=%d t_d=%d t_q=%d\n",
		applied.Limit, applied.RateConfig, applied.CreditHalfLife, applied.RateMemory, applied.TD, applied.TQ)
	return nil
}
