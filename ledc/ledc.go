// Package ledc models an LED PWM controller with hardware duty fades: a few
// timers, each with its own clock divider and duty resolution, and channels
// that interpolate their duty between two percentages over a duration.
//
// Boards whose PWM block has no fade unit (RP2040, Linux GPIO) drive a
// Controller from a goroutine calling Tick, and write the resulting duty to
// their own outputs.
package ledc

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/harveysanders/picofade/hal"
)

const (
	NumTimers   = 4
	NumChannels = 8

	maxResolution = 20
	// Dividers are 10.8 fixed point; 256 is a divide by one.
	minDivider       = 256
	maxDivider       = 1 << 18
	maxCyclesPerStep = 1023
)

// Output receives the duty of a channel. raw is in [0, full] where full is
// 1<<resolution of the channel's timer.
type Output interface {
	Set(raw, full uint32)
}

// Config configures a Controller.
type Config struct {
	// Sources maps each available clock source to its frequency in Hz.
	Sources map[hal.ClockSource]uint32
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type timer struct {
	cfg     hal.TimerConfig
	divider uint32
	full    uint32
}

// Controller is the shared state of all timers and channels.
type Controller struct {
	mu       sync.Mutex
	sources  map[hal.ClockSource]uint32
	now      func() time.Time
	timers   [NumTimers]*timer
	channels [NumChannels]*Channel
}

func New(cfg Config) *Controller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		sources: cfg.Sources,
		now:     now,
	}
}

// Divider returns the 10.8 fixed point divider that produces freqHz with
// the given duty resolution from a srcHz clock.
func Divider(srcHz uint32, resolutionBits uint8, freqHz uint32) (uint32, error) {
	if resolutionBits == 0 || resolutionBits > maxResolution || freqHz == 0 || srcHz == 0 {
		return 0, hal.ErrUnachievable
	}
	div := (uint64(srcHz) << 8) / (uint64(freqHz) << resolutionBits)
	if div < minDivider || div >= maxDivider {
		return 0, hal.ErrUnachievable
	}
	return uint32(div), nil
}

// ConfigureTimer sets the clock of timer n. Reconfiguring a timer is allowed.
func (c *Controller) ConfigureTimer(n hal.TimerNumber, cfg hal.TimerConfig) error {
	op := "timer " + strconv.Itoa(int(n))
	if int(n) >= NumTimers {
		return hal.Wrap(op, hal.ErrInvalidTimer)
	}
	src, ok := c.sources[cfg.Source]
	if !ok {
		return hal.Wrap(op+" source "+cfg.Source.String(), hal.ErrUnachievable)
	}
	div, err := Divider(src, cfg.ResolutionBits, cfg.FrequencyHz)
	if err != nil {
		return hal.Wrap(op, err)
	}
	c.mu.Lock()
	c.timers[n] = &timer{cfg: cfg, divider: div, full: 1 << cfg.ResolutionBits}
	c.mu.Unlock()
	return nil
}

// Timer returns the configuration of timer n.
func (c *Controller) Timer(n hal.TimerNumber) (hal.TimerConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(n) >= NumTimers || c.timers[n] == nil {
		return hal.TimerConfig{}, false
	}
	return c.timers[n].cfg, true
}

// ConfigureChannel binds channel n to a configured timer and writes its
// initial duty to out.
func (c *Controller) ConfigureChannel(n hal.ChannelNumber, cfg hal.ChannelConfig, out Output) (*Channel, error) {
	op := "channel " + strconv.Itoa(int(n))
	if int(n) >= NumChannels {
		return nil, hal.Wrap(op, hal.ErrInvalidChannel)
	}
	if cfg.DutyPercent > 100 {
		return nil, hal.Wrap(op, hal.ErrDuty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channels[n] != nil {
		return nil, hal.Wrap(op, hal.ErrChannelInUse)
	}
	if int(cfg.Timer) >= NumTimers || c.timers[cfg.Timer] == nil {
		return nil, hal.Wrap(op, hal.ErrTimerNotConfigured)
	}
	t := c.timers[cfg.Timer]
	ch := &Channel{
		num:  n,
		ctl:  c,
		t:    t,
		out:  out,
		duty: percentToRaw(cfg.DutyPercent, t.full),
	}
	out.Set(ch.duty, t.full)
	c.channels[n] = ch
	return ch, nil
}

// Tick advances every running fade to the current time.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for _, ch := range c.channels {
		if ch != nil {
			ch.advance(now)
		}
	}
}

// Run calls Tick every interval until ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

func percentToRaw(p uint8, full uint32) uint32 {
	return uint32(p) * full / 100
}
