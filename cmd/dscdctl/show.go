package dscdctl

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/tcattr"
)

var (
	showConfigPath string
	showQdiscName  string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print an engine's starting configuration as JSON, preceded by its netlink-encoded attribute size",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showConfigPath, "config", "", "Path to a YAML qdisc preset file")
	showCmd.Flags().StringVar(&showQdiscName, "name", "", "Name of the preset within --config")
	_ = showCmd.MarkFlagRequired("config")
	_ = showCmd.MarkFlagRequired("name")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig(showConfigPath, showQdiscName)
	if err != nil {
		return err
	}

	wire := tcattr.FromEngineConfig(cfg)
	encoded, err := tcattr.EncodeConfig(wire)
	if err != nil {
		return fmt.Errorf("dscdctl: encode config attributes: %w", err)
	}
	fmt.Fprintf(os.Stdout, "# %d bytes of TCA_DSCD_* attributes\n", len(encoded))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
