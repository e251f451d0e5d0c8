//go:build !linux

package gpiod

import (
	"context"
	"errors"

	"github.com/harveysanders/picofade/hal"
	"github.com/harveysanders/picofade/ledc"
)

var errUnsupported = errors.New("gpiod: GPIO character device unsupported on this platform")

// Board is unavailable outside Linux; Take always fails.
type Board struct{}

func Take(cfg Config) (*Board, error) {
	return nil, errUnsupported
}

func (b *Board) Controller() *ledc.Controller { return nil }

func (b *Board) ConfigureClocks() error { return errUnsupported }

func (b *Board) Watchdogs() []hal.Watchdog { return nil }

func (b *Board) ConfigurePin(pin hal.Pin, mode hal.PinMode) error { return errUnsupported }

func (b *Board) ConfigureTimer(n hal.TimerNumber, cfg hal.TimerConfig) error {
	return errUnsupported
}

func (b *Board) ConfigureChannel(n hal.ChannelNumber, pin hal.Pin, cfg hal.ChannelConfig) (hal.FadeChannel, error) {
	return nil, errUnsupported
}

func (b *Board) Run(ctx context.Context) {}

func (b *Board) Close() error { return nil }
