package dscdctl

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/dscd"
	"github.com/uni-tue-kn/dscd-linux-qdisc/internal/statsserver"
)

var (
	serveConfigPath string
	serveQdiscName  string
	serveAddr       string
	servePollMs     int
	serveHistCap    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an in-process engine and expose its stats over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a YAML qdisc preset file")
	serveCmd.Flags().StringVar(&serveQdiscName, "name", "", "Name of the preset within --config")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().IntVar(&servePollMs, "poll-ms", 1000, "Stats poll interval in milliseconds")
	serveCmd.Flags().IntVar(&serveHistCap, "history", 300, "Number of history samples to retain")
	_ = serveCmd.MarkFlagRequired("config")
	_ = serveCmd.MarkFlagRequired("name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig(serveConfigPath, serveQdiscName)
	if err != nil {
		return err
	}

	engine, err := dscd.NewEngine(cfg, nil)
	if err != nil {
		return fmt.Errorf("dscdctl: construct engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := statsserver.New(engine, time.Duration(servePollMs)*time.Millisecond, serveHistCap)
	logrus.Info("dscdctl: starting stats server")
	return srv.Run(ctx, serveAddr)
}
