// Package sim is a host emulation of the reference LED board: an ESP32-C3
// style chip with an RTC (super watchdog and RTC watchdog), two timer
// groups with one watchdog each, and an LED PWM controller with duty fades.
//
// Every peripheral call is appended to an event journal so callers can
// check what was configured and in which order.
package sim

import (
	"strconv"
	"sync"
	"time"

	"github.com/harveysanders/picofade/hal"
	"github.com/harveysanders/picofade/ledc"
)

const (
	apbHz    = 80_000_000
	xtalHz   = 40_000_000
	rcFastHz = 17_500_000

	numPins = 22
)

var latch hal.Latch

// Config configures a simulated board.
type Config struct {
	// Now is the board's time source. Defaults to time.Now.
	Now func() time.Time
}

// Board is a simulated peripheral set. It implements hal.Peripherals.
type Board struct {
	mu        sync.Mutex
	events    []string
	pins      [numPins]*hal.PinMode
	clocked   bool
	watchdogs []*Watchdog
	ctl       *ledc.Controller
	outputs   [ledc.NumChannels]*Output
}

var _ hal.Peripherals = (*Board)(nil)

// Take returns the board, once per process.
func Take(cfg Config) (*Board, error) {
	if err := latch.Take(); err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// New returns a board without taking the process-wide latch. Tests use it
// to get a fresh board each.
func New(cfg Config) *Board {
	b := &Board{}
	b.ctl = ledc.New(ledc.Config{
		Sources: map[hal.ClockSource]uint32{
			hal.ClockAPB:    apbHz,
			hal.ClockXTAL:   xtalHz,
			hal.ClockRCFast: rcFastHz,
		},
		Now: cfg.Now,
	})
	for _, name := range []string{"rtc-swd", "rtc-rwdt", "timg0-wdt", "timg1-wdt"} {
		b.watchdogs = append(b.watchdogs, &Watchdog{name: name, board: b, enabled: true})
	}
	return b
}

func (b *Board) record(ev string) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()
}

// Events returns a copy of the journal.
func (b *Board) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// Controller returns the LED controller. Run it to make fades progress.
func (b *Board) Controller() *ledc.Controller { return b.ctl }

// Output returns the output of channel n, or nil if it is not configured.
func (b *Board) Output(n hal.ChannelNumber) *Output {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(n) >= len(b.outputs) {
		return nil
	}
	return b.outputs[n]
}

func (b *Board) ConfigureClocks() error {
	b.mu.Lock()
	b.clocked = true
	b.mu.Unlock()
	b.record("clocks boot-defaults")
	return nil
}

func (b *Board) Watchdogs() []hal.Watchdog {
	wds := make([]hal.Watchdog, len(b.watchdogs))
	for i, wd := range b.watchdogs {
		wds[i] = wd
	}
	return wds
}

func (b *Board) ConfigurePin(pin hal.Pin, mode hal.PinMode) error {
	op := "pin " + strconv.Itoa(int(pin))
	b.mu.Lock()
	if int(pin) >= numPins {
		b.mu.Unlock()
		return hal.Wrap(op, hal.ErrInvalidPin)
	}
	if b.pins[pin] != nil {
		b.mu.Unlock()
		return hal.Wrap(op, hal.ErrPinInUse)
	}
	b.pins[pin] = &mode
	b.mu.Unlock()
	b.record(op + " " + mode.String())
	return nil
}

func (b *Board) ConfigureTimer(n hal.TimerNumber, cfg hal.TimerConfig) error {
	if err := b.ctl.ConfigureTimer(n, cfg); err != nil {
		return err
	}
	b.record("timer " + strconv.Itoa(int(n)) + " " + strconv.FormatUint(uint64(cfg.FrequencyHz), 10) + "Hz " +
		strconv.Itoa(int(cfg.ResolutionBits)) + "bit " + cfg.Source.String())
	return nil
}

func (b *Board) ConfigureChannel(n hal.ChannelNumber, pin hal.Pin, cfg hal.ChannelConfig) (hal.FadeChannel, error) {
	op := "channel " + strconv.Itoa(int(n))
	b.mu.Lock()
	if int(pin) >= numPins || b.pins[pin] == nil || *b.pins[pin] != hal.PinOutputPushPull {
		b.mu.Unlock()
		return nil, hal.Wrap(op, hal.ErrPinMode)
	}
	b.mu.Unlock()

	out := &Output{pin: pin}
	ch, err := b.ctl.ConfigureChannel(n, cfg, out)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.outputs[n] = out
	b.mu.Unlock()
	b.record(op + " pin " + strconv.Itoa(int(pin)) + " timer " + strconv.Itoa(int(cfg.Timer)))
	return ch, nil
}

// Watchdog is a simulated watchdog, enabled at reset.
type Watchdog struct {
	name    string
	board   *Board
	mu      sync.Mutex
	enabled bool
}

func (w *Watchdog) Name() string { return w.name }

func (w *Watchdog) Disable() error {
	w.mu.Lock()
	w.enabled = false
	w.mu.Unlock()
	w.board.record("watchdog " + w.name + " disabled")
	return nil
}

// Enabled reports whether the watchdog would still reset the chip.
func (w *Watchdog) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

// Output is the simulated pin driven by a PWM channel.
type Output struct {
	pin       hal.Pin
	mu        sync.Mutex
	raw, full uint32
	writes    int
}

func (o *Output) Set(raw, full uint32) {
	o.mu.Lock()
	o.raw, o.full = raw, full
	o.writes++
	o.mu.Unlock()
}

// Pin returns the pin the output drives.
func (o *Output) Pin() hal.Pin { return o.pin }

// Level returns the duty as a fraction in [0, 1].
func (o *Output) Level() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.full == 0 {
		return 0
	}
	return float64(o.raw) / float64(o.full)
}

// Writes returns how many times the duty was written.
func (o *Output) Writes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes
}
