//go:build rp2040 || rp2350

package main

import (
	"errors"
	"log/slog"
	"machine"

	"github.com/soypat/cyw43439"

	"github.com/harveysanders/picofade/fade"
	"github.com/harveysanders/picofade/lcd"
)

// setupLCD configures I2C0 and starts a handler goroutine for the display.
func setupLCD(logger *slog.Logger) (fade.Indicator, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		return nil, errors.New("configure I2C:" + err.Error())
	}
	dev, err := lcd.Configure(machine.I2C0)
	if err != nil {
		return nil, err
	}
	dev.ClearDisplay()

	messages := make(chan lcd.Message, 4)
	go lcd.NewHandler(dev, messages, logger).Run()
	return lcd.Indicator{Messages: messages}, nil
}

// statusLED drives the LED wired to the CYW43439 on a Pico W.
type statusLED struct {
	dev    *cyw43439.Device
	logger *slog.Logger
}

// The onboard LED is on the wireless chip's GPIO 0.
const statusLEDPin = 0

func setupStatusLED(logger *slog.Logger) (*statusLED, error) {
	dev := cyw43439.NewPicoWDevice()
	dev.SetLogger(logger)
	err := dev.Init(cyw43439.DefaultWifiConfig())
	if err != nil {
		return nil, errors.New("cyw43439 init:" + err.Error())
	}
	return &statusLED{dev: dev, logger: logger}, nil
}

func (s *statusLED) ShowPhase(p fade.Phase) {
	err := s.dev.GPIOSet(statusLEDPin, p.Name == "ascending")
	if err != nil {
		s.logger.Error("status-led:set", slog.String("err", err.Error()))
	}
}
