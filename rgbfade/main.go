//go:build rp2040 || rp2350

// rgbfade fades an RGB LED on GP13 (red), GP14 (green) and GP15 (blue)
// through 0, 8, 32, 100, 32, 8 and 0 percent duty, forever.
//
// Optional mirrors of the diagnostics are enabled with linker flags:
//
//	tinygo flash -target=pico -ldflags="-X main.withLCD=1 -X main.withStatusLED=1" ./rgbfade
package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picofade/board/pico"
	"github.com/harveysanders/picofade/fade"
	"github.com/harveysanders/picofade/hal"
)

// Set via linker flags. Any non-empty value enables the feature.
var (
	withLCD       string // HD44780 16x2 over I2C0 on GP4/GP5.
	withStatusLED string // Pico W onboard LED, lit while going up.
)

const (
	redPin    = machine.GP13
	greenPin  = machine.GP14
	bluePin   = machine.GP15
	buttonPin = machine.GP9

	tickInterval = time.Millisecond
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: dropTime, // No RTC, timestamps would start at 1970.
	}))

	board, err := pico.Take()
	if err != nil {
		printErrForever(logger, "take peripherals", slog.Any("reason", err))
	}

	cfg := fade.DefaultConfig()
	cfg.LEDs = [3]hal.Pin{hal.Pin(redPin), hal.Pin(greenPin), hal.Pin(bluePin)}
	cfg.Button = hal.Pin(buttonPin)
	// RP2 PWM slices are clocked from the system clock.
	cfg.Clock.Source = hal.ClockSystem

	// Stands in for a hardware fade unit. The sequencer yields while it
	// polls, which lets this goroutine run.
	go board.Controller().Run(context.Background(), tickInterval)

	seq, err := fade.Bootstrap(board, cfg, logger)
	if err != nil {
		printErrForever(logger, "configure", slog.Any("reason", err))
	}

	var indicators []fade.Indicator
	if withLCD != "" {
		ind, err := setupLCD(logger)
		if err != nil {
			// The display is optional, keep fading without it.
			logger.Error("lcd:setup-failed", slog.Any("reason", err))
		} else {
			indicators = append(indicators, ind)
		}
	}
	if withStatusLED != "" {
		ind, err := setupStatusLED(logger)
		if err != nil {
			logger.Error("status-led:setup-failed", slog.Any("reason", err))
		} else {
			indicators = append(indicators, ind)
		}
	}

	err = fade.NewDriver(seq, logger, indicators...).Run()
	printErrForever(logger, "fade", slog.Any("reason", err))
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		return slog.Attr{}
	}
	return a
}

// printErrForever prints an error to serial @ 1hz. It blocks forever,
// leaving the LEDs at their last duty. Watchdogs are off so nothing resets.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
