package dscdctl

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
)

// fileConfig is the YAML shape accepted by --config, one section per
// qdisc instance keyed by an arbitrary name so a single file can hold
// presets for several interfaces.
type fileConfig struct {
	Qdiscs map[string]qdiscParams `yaml:"qdiscs"`
}

type qdiscParams struct {
	Limit          uint64 `yaml:"limit"`
	Rate           uint64 `yaml:"rate"`
	CreditHalfLife uint64 `yaml:"credit_half_life"`
	RateMemory     uint64 `yaml:"rate_memory"`
	TD             uint64 `yaml:"t_d"`
	TQ             uint64 `yaml:"t_q"`
}

// loadEngineConfig reads path and returns the named qdisc's parameters
// merged onto DefaultConfig, matching the kernel module's convention
// that any field left at its zero value keeps the built-in default.
// DefaultConfig has no limit, so a preset without one yields a Config
// that NewEngine rejects.
func loadEngineConfig(path, name string) (dscd.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dscd.Config{}, fmt.Errorf("dscdctl: read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return dscd.Config{}, fmt.Errorf("dscdctl: parse config: %w", err)
	}

	params, ok := fc.Qdiscs[name]
	if !ok {
		return dscd.Config{}, fmt.Errorf("dscdctl: no qdisc preset named %q in %s", name, path)
	}

	cfg := dscd.DefaultConfig()
	if params.Limit != 0 {
		cfg.Limit = params.Limit
	}
	if params.Rate != 0 {
		cfg.RateConfig = params.Rate
	}
	if params.CreditHalfLife != 0 {
		cfg.CreditHalfLife = params.CreditHalfLife
	}
	if params.RateMemory != 0 {
		cfg.RateMemory = params.RateMemory
	}
	if params.TD != 0 {
		cfg.TD = params.TD
	}
	if params.TQ != 0 {
		cfg.TQ = params.TQ
	}
	return cfg, nil
}
