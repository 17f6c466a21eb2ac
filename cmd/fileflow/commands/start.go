package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fileflow/fileflow/internal/logger"
	"github.com/fileflow/fileflow/pkg/api"
	"github.com/fileflow/fileflow/pkg/config"
	"github.com/fileflow/fileflow/pkg/metrics"
	fsignal "github.com/fileflow/fileflow/pkg/signal"
	"github.com/fileflow/fileflow/pkg/transfer"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the FileFlow relay server",
	Long: `Start the FileFlow relay server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/fileflow/config.yaml. When no
config file exists the server starts with built-in defaults.

Examples:
  # Start with defaults
  fileflow start

  # Start with custom config file
  fileflow start --config /etc/fileflow/config.yaml

  # Override settings via environment variables
  FILEFLOW_PORT=8080 FILEFLOW_LOGGING_LEVEL=DEBUG fileflow start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("configuration loaded",
		"source", configSource(GetConfigFile()),
		"level", cfg.Logging.Level,
	)

	var transferMetrics *metrics.TransferMetrics
	var signalMetrics *metrics.SignalMetrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		transferMetrics = metrics.NewTransferMetrics()
		signalMetrics = metrics.NewSignalMetrics()
		logger.Info("metrics enabled", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
	} else {
		logger.Info("metrics collection disabled")
	}

	transfers := transfer.New(cfg.Transfer, transferMetrics)
	defer transfers.Close()

	signals := fsignal.NewHandler(transfers, signalMetrics)

	server := api.NewServer(cfg.Server, api.Deps{
		Transfers: transfers,
		Signals:   signals,
		WebRTC:    cfg.WebRTC,
	})

	logger.Info("relay listening",
		"addr", server.Addr(),
		"api_prefix", cfg.Server.APIPrefix,
		"max_block_size", cfg.Transfer.MaxBlockSize.String(),
		"max_blocks_per_file", cfg.Transfer.MaxBlocksPerFile,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.Metrics)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// configSource returns a description of where the config was loaded from.
func configSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
