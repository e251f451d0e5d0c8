//go:build rp2040 || rp2350

// Package pico implements hal.Peripherals on the Raspberry Pi Pico family.
//
// The RP2040/RP2350 PWM block has slices of two channels and no fade unit,
// so timers and fades come from a ledc.Controller. Each LED channel drives
// the slice its pin belongs to, configured with the period of the timer.
package pico

import (
	"device/rp"
	"machine"
	"strconv"

	"github.com/harveysanders/picofade/hal"
	"github.com/harveysanders/picofade/ledc"
)

const numPins = 30

var latch hal.Latch

// pwmSlice abstracts over TinyGo's unexported PWM group type.
type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// Board is the Pico peripheral set.
type Board struct {
	pins [numPins]*hal.PinMode
	ctl  *ledc.Controller
}

var _ hal.Peripherals = (*Board)(nil)

// Take returns the board. It fails if called more than once.
func Take() (*Board, error) {
	if err := latch.Take(); err != nil {
		return nil, err
	}
	return &Board{
		ctl: ledc.New(ledc.Config{
			Sources: map[hal.ClockSource]uint32{
				hal.ClockSystem: machine.CPUFrequency(),
			},
		}),
	}, nil
}

// Controller returns the fade engine. It must be run on its own goroutine.
func (b *Board) Controller() *ledc.Controller { return b.ctl }

// ConfigureClocks keeps the boot defaults the runtime set up before main.
func (b *Board) ConfigureClocks() error {
	if machine.CPUFrequency() == 0 {
		return hal.ErrUnachievable
	}
	return nil
}

func (b *Board) Watchdogs() []hal.Watchdog {
	return []hal.Watchdog{watchdog{}}
}

func (b *Board) ConfigurePin(pin hal.Pin, mode hal.PinMode) error {
	op := "pin " + strconv.Itoa(int(pin))
	if int(pin) >= numPins {
		return hal.Wrap(op, hal.ErrInvalidPin)
	}
	if b.pins[pin] != nil {
		return hal.Wrap(op, hal.ErrPinInUse)
	}
	switch mode {
	case hal.PinOutputPushPull:
		machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	case hal.PinInputPullUp:
		machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	default:
		return hal.Wrap(op, hal.ErrPinMode)
	}
	b.pins[pin] = &mode
	return nil
}

func (b *Board) ConfigureTimer(n hal.TimerNumber, cfg hal.TimerConfig) error {
	return b.ctl.ConfigureTimer(n, cfg)
}

func (b *Board) ConfigureChannel(n hal.ChannelNumber, pin hal.Pin, cfg hal.ChannelConfig) (hal.FadeChannel, error) {
	op := "channel " + strconv.Itoa(int(n))
	if int(pin) >= numPins || b.pins[pin] == nil || *b.pins[pin] != hal.PinOutputPushPull {
		return nil, hal.Wrap(op, hal.ErrPinMode)
	}
	if cfg.PinConfig != hal.PushPull {
		// The PWM function of an RP2 pin is always push-pull.
		return nil, hal.Wrap(op, hal.ErrPinMode)
	}
	tcfg, ok := b.ctl.Timer(cfg.Timer)
	if !ok {
		return nil, hal.Wrap(op, hal.ErrTimerNotConfigured)
	}

	slice := sliceFor(pin)
	err := slice.Configure(machine.PWMConfig{
		Period: 1e9 / uint64(tcfg.FrequencyHz),
	})
	if err != nil {
		return nil, hal.Wrap(op+" slice", err)
	}
	if uint64(slice.Top())+1 < uint64(1)<<tcfg.ResolutionBits {
		return nil, hal.Wrap(op+" slice", hal.ErrUnachievable)
	}
	pwmch, err := slice.Channel(machine.Pin(pin))
	if err != nil {
		return nil, hal.Wrap(op+" slice", err)
	}
	return b.ctl.ConfigureChannel(n, cfg, &sliceOutput{slice: slice, ch: pwmch})
}

// sliceFor maps a GPIO to its PWM slice: GPIO N is on slice (N>>1)&7.
func sliceFor(pin hal.Pin) pwmSlice {
	switch (pin >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

type sliceOutput struct {
	slice pwmSlice
	ch    uint8
}

func (o *sliceOutput) Set(raw, full uint32) {
	top := uint64(o.slice.Top())
	o.slice.Set(o.ch, uint32(uint64(raw)*top/uint64(full)))
}

// watchdog is the single RP2 watchdog. It only runs if something started it,
// so disabling is a register write.
type watchdog struct{}

func (watchdog) Name() string { return "watchdog" }

func (watchdog) Disable() error {
	rp.WATCHDOG.CTRL.ClearBits(rp.WATCHDOG_CTRL_ENABLE)
	return nil
}
