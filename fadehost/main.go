// fadehost runs the RGB fade sequence on the host, either on the simulated
// reference board or on LEDs wired to a Linux GPIO chip.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	logLevel   = "info"
	configPath = ""
)

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %v", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fadehost",
		Short: "fadehost runs the RGB LED fade sequence on a host board",
		Long: `fadehost runs the RGB LED fade sequence (0, 8, 32, 100, 32, 8, 0 percent)
on the simulated reference board or on a Linux GPIO chip.`,
		SilenceUsage: true,
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	globalFlags.StringVar(&configPath, "config", "", "YAML config file path (defaults to the reference board on the simulator)")

	cmd.AddCommand(
		NewRunCommand(),
		NewScriptCommand(),
	)

	return cmd
}
