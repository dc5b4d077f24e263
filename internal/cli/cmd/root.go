package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"assetmobile/internal/app"
	"assetmobile/internal/config"
	"assetmobile/internal/logging"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var (
	Container *app.Container

	exit   = os.Exit
	stderr = io.Writer(os.Stderr)

	configDir  string
	primaryURL string
	logLevel   string
)

var RootCmd = &cobra.Command{
	Use:          "assetmobile",
	Short:        "Field client for the asset lifecycle service",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if Container != nil {
			_ = Container.Close()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		printBanner()
		runMenu(cmd.Context())
	},
}

func setup(ctx context.Context) error {
	dir := configDir
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			return fmt.Errorf("error getting user config directory: %w", err)
		}
		dir = d
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if primaryURL != "" {
		cfg.PrimaryURL = primaryURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	Container = c
	return nil
}

func printBanner() {
	figure.NewFigure("Asset Mobile", "small", true).Print()
	fmt.Println()
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (defaults to the user config dir)")
	RootCmd.PersistentFlags().StringVar(&primaryURL, "url", "", "Primary server URL (overrides config)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

// fatal reports err and exits, after releasing the session store.
func fatal(msg string, err error) {
	if Container == nil {
		fmt.Fprintf(stderr, "%s: %v\n", msg, err)
	} else {
		_ = Container.Close()
		Container.Logger.Error().Err(err).Msg(msg)
	}
	exit(1)
}
