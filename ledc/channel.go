package ledc

import (
	"strconv"
	"time"

	"github.com/harveysanders/picofade/hal"
)

// Channel is one PWM output of a Controller. It implements hal.FadeChannel.
type Channel struct {
	num hal.ChannelNumber
	ctl *Controller
	t   *timer
	out Output

	duty uint32

	// Fade state, valid while running.
	from, to uint32
	started  time.Time
	dur      time.Duration
	running  bool
}

var _ hal.FadeChannel = (*Channel)(nil)

// StartDutyFade starts a linear fade from start to end percent over d. The
// duty jumps to start immediately. A fade in progress is replaced.
func (ch *Channel) StartDutyFade(start, end uint8, d time.Duration) error {
	op := "channel " + strconv.Itoa(int(ch.num)) + " fade"
	if start > 100 {
		return hal.Wrap(op, hal.ErrStartDuty)
	}
	if end > 100 {
		return hal.Wrap(op, hal.ErrEndDuty)
	}
	from := percentToRaw(start, ch.t.full)
	to := percentToRaw(end, ch.t.full)
	if from == to {
		return hal.Wrap(op, hal.ErrDutyRange)
	}
	periods := periodsIn(d, ch.t.cfg.FrequencyHz)
	if periods == 0 || periods/uint64(absDiff(from, to)) > maxCyclesPerStep {
		return hal.Wrap(op, hal.ErrDuration)
	}

	ch.ctl.mu.Lock()
	defer ch.ctl.mu.Unlock()
	ch.from, ch.to = from, to
	ch.dur = d
	ch.started = ch.ctl.now()
	ch.running = true
	ch.duty = from
	ch.out.Set(ch.duty, ch.t.full)
	return nil
}

// IsDutyFadeRunning reports whether the last started fade has not reached
// its end duty yet.
func (ch *Channel) IsDutyFadeRunning() bool {
	ch.ctl.mu.Lock()
	defer ch.ctl.mu.Unlock()
	return ch.running
}

// Duty returns the raw duty and its full scale value.
func (ch *Channel) Duty() (raw, full uint32) {
	ch.ctl.mu.Lock()
	defer ch.ctl.mu.Unlock()
	return ch.duty, ch.t.full
}

// DutyPercent returns the current duty rounded to a whole percent.
func (ch *Channel) DutyPercent() uint8 {
	raw, full := ch.Duty()
	return uint8((uint64(raw)*100 + uint64(full)/2) / uint64(full))
}

// advance must be called with ctl.mu held.
func (ch *Channel) advance(now time.Time) {
	if !ch.running {
		return
	}
	elapsed := now.Sub(ch.started)
	if elapsed >= ch.dur {
		ch.duty = ch.to
		ch.running = false
		ch.out.Set(ch.duty, ch.t.full)
		return
	}
	if elapsed < 0 {
		elapsed = 0
	}
	// Duty only moves on whole PWM periods.
	done := periodsIn(elapsed, ch.t.cfg.FrequencyHz)
	total := periodsIn(ch.dur, ch.t.cfg.FrequencyHz)
	delta := uint32(uint64(absDiff(ch.from, ch.to)) * done / total)
	if ch.to > ch.from {
		ch.duty = ch.from + delta
	} else {
		ch.duty = ch.from - delta
	}
	ch.out.Set(ch.duty, ch.t.full)
}

func periodsIn(d time.Duration, freqHz uint32) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d) * uint64(freqHz) / uint64(time.Second)
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
