//go:build linux

package gpiod

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/harveysanders/picofade/hal"
	"github.com/harveysanders/picofade/ledc"
)

// Board drives LEDs wired to a Linux GPIO chip. It implements hal.Peripherals.
type Board struct {
	chip     *gpiocdev.Chip
	consumer string

	mu    sync.Mutex
	lines map[hal.Pin]*gpiocdev.Line
	modes map[hal.Pin]hal.PinMode

	ctl *ledc.Controller
	pwm *softPWM
}

var _ hal.Peripherals = (*Board)(nil)

// Take opens the GPIO chip. It fails if called more than once.
func Take(cfg Config) (*Board, error) {
	cfg = cfg.withDefaults()
	if err := latch.Take(); err != nil {
		return nil, err
	}
	chip, err := openChipFn(cfg.Chip, cfg.Consumer)
	if err != nil {
		return nil, hal.Wrap("gpio chip "+cfg.Chip, err)
	}
	return &Board{
		chip:     chip,
		consumer: cfg.Consumer,
		lines:    make(map[hal.Pin]*gpiocdev.Line),
		modes:    make(map[hal.Pin]hal.PinMode),
		ctl:      ledc.New(ledc.Config{Sources: sources}),
		pwm:      newSoftPWM(time.Second / time.Duration(cfg.CarrierHz)),
	}, nil
}

func openChip(name, consumer string) (*gpiocdev.Chip, error) {
	return gpiocdev.NewChip(name, gpiocdev.WithConsumer(consumer))
}

var openChipFn = openChip

// Controller returns the fade engine.
func (b *Board) Controller() *ledc.Controller { return b.ctl }

// ConfigureClocks is a no-op: the kernel owns the clock tree.
func (b *Board) ConfigureClocks() error { return nil }

// Watchdogs is empty. The kernel watchdog is only armed by opening
// /dev/watchdog, which this board never does.
func (b *Board) Watchdogs() []hal.Watchdog { return nil }

func (b *Board) ConfigurePin(pin hal.Pin, mode hal.PinMode) error {
	op := "pin " + strconv.Itoa(int(pin))
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.lines[pin]; ok {
		return hal.Wrap(op, hal.ErrPinInUse)
	}
	var (
		line *gpiocdev.Line
		err  error
	)
	switch mode {
	case hal.PinOutputPushPull:
		line, err = b.chip.RequestLine(int(pin), gpiocdev.AsOutput(0), gpiocdev.AsPushPull)
	case hal.PinInputPullUp:
		line, err = b.chip.RequestLine(int(pin), gpiocdev.AsInput, gpiocdev.WithPullUp)
	default:
		err = hal.ErrPinMode
	}
	if err != nil {
		return hal.Wrap(op, err)
	}
	b.lines[pin] = line
	b.modes[pin] = mode
	return nil
}

func (b *Board) ConfigureTimer(n hal.TimerNumber, cfg hal.TimerConfig) error {
	return b.ctl.ConfigureTimer(n, cfg)
}

func (b *Board) ConfigureChannel(n hal.ChannelNumber, pin hal.Pin, cfg hal.ChannelConfig) (hal.FadeChannel, error) {
	op := "channel " + strconv.Itoa(int(n))
	b.mu.Lock()
	line, ok := b.lines[pin]
	mode := b.modes[pin]
	b.mu.Unlock()
	if !ok || mode != hal.PinOutputPushPull {
		return nil, hal.Wrap(op, hal.ErrPinMode)
	}
	return b.ctl.ConfigureChannel(n, cfg, b.pwm.add(line))
}

// Run drives fades and the software carrier until ctx is done.
func (b *Board) Run(ctx context.Context) {
	go b.ctl.Run(ctx, time.Millisecond)
	b.pwm.Run(ctx)
}

// Close releases every requested line and the chip.
func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var errs []error
	for pin, line := range b.lines {
		if b.modes[pin] == hal.PinOutputPushPull {
			_ = line.SetValue(0)
		}
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.lines = map[hal.Pin]*gpiocdev.Line{}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, err)
		}
		b.chip = nil
	}
	return errors.Join(errs...)
}
