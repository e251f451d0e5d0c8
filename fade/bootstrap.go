// Package fade runs red, green and blue PWM channels through a fixed
// brightness script: 0, 8, 32, 100, 32, 8 and back to 0 percent, all
// channels together, forever.
package fade

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/harveysanders/picofade/hal"
)

// Config is the board wiring and timer setup used by Bootstrap.
type Config struct {
	LEDs     [3]hal.Pin // red, green, blue
	Button   hal.Pin    // Pulled-up input, configured but not read.
	Timer    hal.TimerNumber
	Clock    hal.TimerConfig
	Channels [3]hal.ChannelNumber
	Duration time.Duration
	// Yield runs on every completion poll. Nil means runtime.Gosched.
	Yield func()
}

// DefaultConfig returns the reference wiring: LEDs on GPIO3, 4 and 5,
// button on GPIO9, timer 0 at 1 kHz with 10 bit duty from the APB clock.
func DefaultConfig() Config {
	return Config{
		LEDs:   [3]hal.Pin{3, 4, 5},
		Button: 9,
		Timer:  0,
		Clock: hal.TimerConfig{
			ResolutionBits: 10,
			Source:         hal.ClockAPB,
			FrequencyHz:    1000,
		},
		Channels: [3]hal.ChannelNumber{0, 1, 2},
		Duration: Duration,
	}
}

// Bootstrap configures p for fading and returns a Sequencer over the three
// LED channels. Clocks come first, then every watchdog is disabled, then the
// pins, timer and channels are configured. The greeting is logged once the
// watchdogs are off. Any error is fatal to the caller.
func Bootstrap(p hal.Peripherals, cfg Config, logger *slog.Logger) (*Sequencer, error) {
	if err := p.ConfigureClocks(); err != nil {
		return nil, hal.Wrap("clocks", err)
	}
	for _, wd := range p.Watchdogs() {
		if err := wd.Disable(); err != nil {
			return nil, hal.Wrap("watchdog "+wd.Name(), err)
		}
	}
	logger.Info("Hello world!")

	for _, pin := range cfg.LEDs {
		if err := p.ConfigurePin(pin, hal.PinOutputPushPull); err != nil {
			return nil, hal.Wrap("pin "+strconv.Itoa(int(pin)), err)
		}
	}
	if err := p.ConfigureTimer(cfg.Timer, cfg.Clock); err != nil {
		return nil, err
	}

	channels := make([]hal.FadeChannel, 0, len(cfg.LEDs))
	for i, pin := range cfg.LEDs {
		ch, err := p.ConfigureChannel(cfg.Channels[i], pin, hal.ChannelConfig{
			Timer:       cfg.Timer,
			DutyPercent: 0,
			PinConfig:   hal.PushPull,
		})
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}

	if err := p.ConfigurePin(cfg.Button, hal.PinInputPullUp); err != nil {
		return nil, hal.Wrap("button pin "+strconv.Itoa(int(cfg.Button)), err)
	}

	duration := cfg.Duration
	if duration <= 0 {
		duration = Duration
	}
	return NewSequencer(channels, duration, cfg.Yield), nil
}
