// Package hal describes the peripherals the fader needs from a board:
// clocks, watchdogs, GPIO pins and an LED PWM controller with duty fades.
//
// Board packages (board/pico, board/sim, board/gpiod) implement Peripherals.
// Core code only talks to these interfaces so the same fade sequence runs on
// real hardware and on the host.
package hal

import "time"

// Pin identifies a GPIO line by its board number.
type Pin uint8

// PinMode selects how a pin is configured.
type PinMode uint8

const (
	PinOutputPushPull PinMode = iota
	PinInputPullUp
)

func (m PinMode) String() string {
	switch m {
	case PinOutputPushPull:
		return "output-push-pull"
	case PinInputPullUp:
		return "input-pull-up"
	}
	return "unknown"
}

// ClockSource selects the clock feeding a PWM timer.
type ClockSource uint8

const (
	ClockAPB    ClockSource = iota // 80 MHz peripheral bus on the reference board.
	ClockXTAL                      // External crystal.
	ClockRCFast                    // Internal RC oscillator.
	ClockSystem                    // CPU/system clock (RP2040 PWM runs from it).
)

func (c ClockSource) String() string {
	switch c {
	case ClockAPB:
		return "apb"
	case ClockXTAL:
		return "xtal"
	case ClockRCFast:
		return "rc-fast"
	case ClockSystem:
		return "system"
	}
	return "unknown"
}

// TimerNumber indexes a PWM timer.
type TimerNumber uint8

// ChannelNumber indexes a PWM channel.
type ChannelNumber uint8

// TimerConfig is the clock configuration of one PWM timer.
type TimerConfig struct {
	ResolutionBits uint8 // Duty resolution, 10 gives 1024 duty steps.
	Source         ClockSource
	FrequencyHz    uint32 // PWM carrier frequency.
}

// PinConfig is the output driver used by a PWM channel.
type PinConfig uint8

const (
	PushPull PinConfig = iota
	OpenDrain
)

// ChannelConfig binds a PWM channel to a configured timer.
type ChannelConfig struct {
	Timer       TimerNumber
	DutyPercent uint8
	PinConfig   PinConfig
}

// Watchdog is a hardware watchdog that can be turned off.
type Watchdog interface {
	Name() string
	Disable() error
}

// FadeChannel is a PWM channel able to run a duty fade without software
// stepping each value.
type FadeChannel interface {
	// StartDutyFade starts a fade from start to end percent lasting d.
	StartDutyFade(start, end uint8, d time.Duration) error
	// IsDutyFadeRunning reports whether the last fade has not finished yet.
	IsDutyFadeRunning() bool
}

// Peripherals is the exclusively owned peripheral set of a board.
type Peripherals interface {
	// ConfigureClocks applies the boot default clock tree.
	ConfigureClocks() error
	// Watchdogs lists every watchdog instance of the board.
	Watchdogs() []Watchdog
	ConfigurePin(pin Pin, mode PinMode) error
	ConfigureTimer(n TimerNumber, cfg TimerConfig) error
	// ConfigureChannel attaches channel n to pin, which must already be a
	// push-pull output.
	ConfigureChannel(n ChannelNumber, pin Pin, cfg ChannelConfig) (FadeChannel, error)
}
