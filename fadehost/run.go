package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/harveysanders/picofade/board/gpiod"
	"github.com/harveysanders/picofade/board/sim"
	"github.com/harveysanders/picofade/config"
	"github.com/harveysanders/picofade/fade"
	"github.com/harveysanders/picofade/hal"
)

const renderInterval = 50 * time.Millisecond

// NewRunCommand .
func NewRunCommand() *cobra.Command {
	var (
		boardKind string
		cycles    int
		render    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the fade sequence",
		Long: `Run the fade sequence. With --cycles 0 it runs until interrupted.

Examples:
  fadehost run --cycles 1 --render
  fadehost run --board gpiod --config pi.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if boardKind != "" {
				cfg.Board.Kind = boardKind
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return run(cmd.Context(), cfg, cycles, render, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&boardKind, "board", "", "board to run on: sim or gpiod (overrides the config file)")
	f.IntVar(&cycles, "cycles", 0, "number of up/down cycles to run, 0 runs forever")
	f.BoolVar(&render, "render", false, "draw the channel duty as colored bars (sim board only)")

	return cmd
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, pkgerrors.Wrapf(err, "failed to load config %s", configPath)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, cycles int, render bool, out io.Writer) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var p hal.Peripherals
	var simBoard *sim.Board
	switch cfg.Board.Kind {
	case config.BoardGPIOD:
		b, err := gpiod.Take(gpiod.Config{
			Chip:      cfg.Board.Chip,
			Consumer:  cfg.Board.Consumer,
			CarrierHz: cfg.Board.CarrierHz,
		})
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to open gpio chip")
		}
		stopped := make(chan struct{})
		go func() {
			b.Run(ctx)
			close(stopped)
		}()
		defer func() {
			cancel()
			<-stopped
			if err := b.Close(); err != nil {
				logger.Warn("gpiod:close", slog.String("err", err.Error()))
			}
		}()
		p = b
	default:
		b, err := sim.Take(sim.Config{})
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to take sim board")
		}
		go b.Controller().Run(ctx, cfg.Fade.TickInterval)
		p, simBoard = b, b
	}

	fc := cfg.FadeConfig()
	seq, err := fade.Bootstrap(p, fc, logger)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to configure %s board", cfg.Board.Kind)
	}

	var outputs []levelSource
	if simBoard != nil {
		for _, e := range simBoard.Events() {
			logger.Debug("sim:event", "event", e)
		}
		if render {
			for _, n := range fc.Channels {
				outputs = append(outputs, simBoard.Output(n))
			}
		}
	}
	renderCtx, stopRender := context.WithCancel(ctx)
	rendered := make(chan struct{})
	if len(outputs) > 0 {
		go func() {
			renderLoop(renderCtx, out, outputs, renderInterval)
			close(rendered)
		}()
	} else {
		close(rendered)
	}
	defer func() {
		stopRender()
		<-rendered
	}()
	d := fade.NewDriver(seq, logger)

	errc := make(chan error, 1)
	go func() { errc <- drive(d, cycles) }()
	select {
	case err := <-errc:
		stopRender()
		<-rendered
		if len(outputs) > 0 {
			io.WriteString(out, "\n")
		}
		return err
	case <-ctx.Done():
		logger.Info("interrupted")
		return nil
	}
}

func drive(d *fade.Driver, cycles int) error {
	if cycles <= 0 {
		return d.Run()
	}
	for i := 0; i < cycles; i++ {
		if err := d.Cycle(); err != nil {
			return pkgerrors.Wrapf(err, "cycle %d", i+1)
		}
	}
	return nil
}
