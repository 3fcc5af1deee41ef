// Command configurator opens the product configurator window.
package main

import (
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"configurator/internal/app"
	"configurator/internal/config"
	"configurator/internal/logging"
)

func init() {
	// raylib must stay on the thread that created the window.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		cacheDir   string
		offline    bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:           "configurator",
		Short:         "Pick materials for the parts of a 3D product",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := logging.Setup(os.Stderr, level)

			cfg, err := config.Load(configPath)
			if err != nil {
				logger.Error("load config", "err", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var progress io.Writer = os.Stderr
			if quiet {
				progress = nil
			}
			if err := app.Run(ctx, app.Options{
				Config:   cfg,
				Logger:   logger,
				CacheDir: cacheDir,
				Offline:  offline,
				Progress: progress,
			}); err != nil {
				logger.Error("configurator stopped", "err", err)
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "configuration file (.yaml or .toml); built-in chair catalog if empty")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&cacheDir, "cache-dir", "", "asset cache directory (overrides cache_dir)")
	flags.BoolVar(&offline, "offline", false, "only use cached assets")
	flags.BoolVarP(&quiet, "quiet", "q", false, "hide download progress")
	return cmd
}
