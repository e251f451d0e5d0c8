package sim_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/harveysanders/picofade/board/sim"
	"github.com/harveysanders/picofade/fade"
	"github.com/harveysanders/picofade/hal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bootstrap(t *testing.T) (*sim.Board, *fade.Sequencer, *sim.Clock) {
	t.Helper()
	clk := sim.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := sim.New(sim.Config{Now: clk.Now})
	cfg := fade.DefaultConfig()
	cfg.Yield = func() {
		clk.Advance(10 * time.Millisecond)
		b.Controller().Tick()
	}
	seq, err := fade.Bootstrap(b, cfg, discardLogger())
	if err != nil {
		t.Fatalf("Bootstrap() err=%v", err)
	}
	return b, seq, clk
}

func TestTake_OncePerProcess(t *testing.T) {
	if _, err := sim.Take(sim.Config{}); err != nil {
		t.Fatalf("first Take() err=%v", err)
	}
	if _, err := sim.Take(sim.Config{}); !errors.Is(err, hal.ErrTaken) {
		t.Fatalf("second Take() err=%v want %v", err, hal.ErrTaken)
	}
}

func TestBootstrap_Journal(t *testing.T) {
	b, _, _ := bootstrap(t)
	want := []string{
		"clocks boot-defaults",
		"watchdog rtc-swd disabled",
		"watchdog rtc-rwdt disabled",
		"watchdog timg0-wdt disabled",
		"watchdog timg1-wdt disabled",
		"pin 3 output-push-pull",
		"pin 4 output-push-pull",
		"pin 5 output-push-pull",
		"timer 0 1000Hz 10bit apb",
		"channel 0 pin 3 timer 0",
		"channel 1 pin 4 timer 0",
		"channel 2 pin 5 timer 0",
		"pin 9 input-pull-up",
	}
	got := b.Events()
	if len(got) != len(want) {
		t.Fatalf("events=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events[%d]=%q want %q", i, got[i], want[i])
		}
	}
	for _, wd := range b.Watchdogs() {
		if wd.(*sim.Watchdog).Enabled() {
			t.Fatalf("watchdog %s still enabled", wd.Name())
		}
	}
	for n := hal.ChannelNumber(0); n < 3; n++ {
		if lvl := b.Output(n).Level(); lvl != 0 {
			t.Fatalf("channel %d starts at %v want 0", n, lvl)
		}
	}
}

type levelProbe struct {
	b      *sim.Board
	levels map[string][3]float64
}

func (p *levelProbe) ShowPhase(ph fade.Phase) {
	var l [3]float64
	for n := range l {
		l[n] = p.b.Output(hal.ChannelNumber(n)).Level()
	}
	p.levels[ph.Name] = l
}

func TestCycle_DrivesOutputs(t *testing.T) {
	b, seq, _ := bootstrap(t)
	probe := &levelProbe{b: b, levels: map[string][3]float64{}}
	d := fade.NewDriver(seq, discardLogger(), probe)
	if err := d.Cycle(); err != nil {
		t.Fatalf("Cycle() err=%v", err)
	}

	// The descending phase begins where the ascending one peaked.
	for n, lvl := range probe.levels["descending"] {
		if lvl != 1 {
			t.Fatalf("channel %d at descending start=%v want 1", n, lvl)
		}
	}
	for n := hal.ChannelNumber(0); n < 3; n++ {
		out := b.Output(n)
		if out.Level() != 0 {
			t.Fatalf("channel %d ends at %v want 0", n, out.Level())
		}
		// One initial write, plus a write per start and per tick.
		if out.Writes() < 1+6 {
			t.Fatalf("channel %d writes=%d", n, out.Writes())
		}
	}
}

func TestConfigureChannel_RequiresOutputPin(t *testing.T) {
	b := sim.New(sim.Config{})
	if err := b.ConfigureTimer(0, fade.DefaultConfig().Clock); err != nil {
		t.Fatalf("ConfigureTimer() err=%v", err)
	}
	if err := b.ConfigurePin(9, hal.PinInputPullUp); err != nil {
		t.Fatalf("ConfigurePin() err=%v", err)
	}
	_, err := b.ConfigureChannel(0, 9, hal.ChannelConfig{Timer: 0})
	if !errors.Is(err, hal.ErrPinMode) {
		t.Fatalf("input pin err=%v want %v", err, hal.ErrPinMode)
	}
	_, err = b.ConfigureChannel(0, 7, hal.ChannelConfig{Timer: 0})
	if !errors.Is(err, hal.ErrPinMode) {
		t.Fatalf("unconfigured pin err=%v want %v", err, hal.ErrPinMode)
	}
	if err := b.ConfigurePin(9, hal.PinOutputPushPull); !errors.Is(err, hal.ErrPinInUse) {
		t.Fatalf("pin reuse err=%v want %v", err, hal.ErrPinInUse)
	}
	if err := b.ConfigurePin(40, hal.PinOutputPushPull); !errors.Is(err, hal.ErrInvalidPin) {
		t.Fatalf("bad pin err=%v want %v", err, hal.ErrInvalidPin)
	}
}

func TestConfigureTimer_Unachievable(t *testing.T) {
	b := sim.New(sim.Config{})
	cfg := hal.TimerConfig{ResolutionBits: 14, Source: hal.ClockRCFast, FrequencyHz: 40_000}
	if err := b.ConfigureTimer(0, cfg); !errors.Is(err, hal.ErrUnachievable) {
		t.Fatalf("err=%v want %v", err, hal.ErrUnachievable)
	}
	if len(b.Events()) != 0 {
		t.Fatalf("failed timer must not be journaled: %v", b.Events())
	}
}
