// Package gpiod runs the LED fader on a Linux single board computer through
// the GPIO character device. Linux GPIO has no PWM fade unit, so fades come
// from a ledc.Controller and duty is produced by a software carrier.
package gpiod

import "github.com/harveysanders/picofade/hal"

const (
	defaultChip      = "gpiochip0"
	defaultConsumer  = "picofade"
	defaultCarrierHz = 200
)

var latch hal.Latch

// Nominal clocks so timer configs written for the reference board pass the
// same divider checks.
var sources = map[hal.ClockSource]uint32{
	hal.ClockAPB:  80_000_000,
	hal.ClockXTAL: 40_000_000,
}

// Config selects the GPIO chip.
type Config struct {
	Chip     string // Defaults to gpiochip0.
	Consumer string // Label shown by gpioinfo.
	// CarrierHz is the software PWM frequency. It is independent of the
	// timer frequency since user space cannot toggle lines at kHz rates
	// reliably.
	CarrierHz int
}

func (c Config) withDefaults() Config {
	if c.Chip == "" {
		c.Chip = defaultChip
	}
	if c.Consumer == "" {
		c.Consumer = defaultConsumer
	}
	if c.CarrierHz <= 0 {
		c.CarrierHz = defaultCarrierHz
	}
	return c
}
