package fade

import (
	"runtime"
	"strconv"
	"time"

	"github.com/harveysanders/picofade/hal"
)

// StartError is returned when a channel rejects the start of a fade.
type StartError struct {
	Channel int
	Step    Step
	Err     error
}

func (e *StartError) Error() string {
	return "fade " + e.Step.String() + " on channel " + strconv.Itoa(e.Channel) + ": " + e.Err.Error()
}

func (e *StartError) Unwrap() error { return e.Err }

// Sequencer drives a fixed list of channels through fades with identical
// timing. The first channel is polled for completion on behalf of all of
// them since they share one timer and are started with the same arguments.
type Sequencer struct {
	channels []hal.FadeChannel
	duration time.Duration
	yield    func()
}

// NewSequencer returns a Sequencer over channels, in the order fades are
// started. yield runs on each poll of the completion flag; nil means
// runtime.Gosched, which lets a fade engine goroutine progress.
func NewSequencer(channels []hal.FadeChannel, duration time.Duration, yield func()) *Sequencer {
	if len(channels) == 0 {
		panic("fade: sequencer needs at least one channel")
	}
	if yield == nil {
		yield = runtime.Gosched
	}
	return &Sequencer{
		channels: channels,
		duration: duration,
		yield:    yield,
	}
}

// Fade starts step on every channel, in order, then blocks until the
// first channel reports the fade finished. There is no timeout: a fade
// that never completes blocks forever.
func (s *Sequencer) Fade(step Step) error {
	for i, ch := range s.channels {
		err := ch.StartDutyFade(step.Start, step.End, s.duration)
		if err != nil {
			return &StartError{Channel: i, Step: step, Err: err}
		}
	}
	s.wait()
	return nil
}

func (s *Sequencer) wait() {
	proxy := s.channels[0]
	for proxy.IsDutyFadeRunning() {
		s.yield()
	}
}
