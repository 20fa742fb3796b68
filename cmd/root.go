package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xeniter/romygo/app"
	"github.com/xeniter/romygo/config"
	"github.com/xeniter/romygo/infra/logger"
	"github.com/xeniter/romygo/infra/romy"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "romygo",
	Short: "Local control daemon for ROMY vacuum robots",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}

// signalContext returns a context canceled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// connect loads the configuration and connects to the configured robot. The
// one shot subcommands share it.
func connect(ctx context.Context) (*romy.Client, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Robot.Host == "" {
		return nil, fmt.Errorf("robot.host is not configured")
	}
	return romy.Connect(ctx, romy.Config{
		Host:     cfg.Robot.Host,
		Password: cfg.Robot.Password,
		Ports:    cfg.Robot.Ports,
		Timeout:  cfg.Robot.Timeout(),
	})
}
