package gpiod

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeLine struct {
	mu     sync.Mutex
	value  int
	writes int
}

func (l *fakeLine) SetValue(v int) error {
	l.mu.Lock()
	l.value = v
	l.writes++
	l.mu.Unlock()
	return nil
}

func (l *fakeLine) state() (value, writes int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.writes
}

func TestPlan_LevelsAndEdges(t *testing.T) {
	p := newSoftPWM(10 * time.Millisecond)
	off := p.add(&fakeLine{})
	quarter := p.add(&fakeLine{})
	full := p.add(&fakeLine{})
	half := p.add(&fakeLine{})
	off.Set(0, 1024)
	quarter.Set(256, 1024)
	full.Set(1024, 1024)
	half.Set(512, 1024)

	levels, edges := p.plan()
	wantLevels := []int{0, 1, 1, 1}
	for i := range wantLevels {
		if levels[i] != wantLevels[i] {
			t.Fatalf("levels=%v want %v", levels, wantLevels)
		}
	}
	if len(edges) != 2 {
		t.Fatalf("edges=%v want 2", edges)
	}
	if edges[0] != (edge{at: 2500 * time.Microsecond, idx: 1}) {
		t.Fatalf("edges[0]=%+v want 2.5ms on output 1", edges[0])
	}
	if edges[1] != (edge{at: 5 * time.Millisecond, idx: 3}) {
		t.Fatalf("edges[1]=%+v want 5ms on output 3", edges[1])
	}
}

func TestPlan_UnsetOutputStaysLow(t *testing.T) {
	p := newSoftPWM(time.Millisecond)
	p.add(&fakeLine{})
	levels, edges := p.plan()
	if levels[0] != 0 || len(edges) != 0 {
		t.Fatalf("levels=%v edges=%v want low with no edges", levels, edges)
	}
}

func TestRun_LeavesLinesLow(t *testing.T) {
	p := newSoftPWM(2 * time.Millisecond)
	line := &fakeLine{}
	p.add(line).Set(1024, 1024)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		v, _ := line.state()
		if v == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("line never went high")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if v, _ := line.state(); v != 0 {
		t.Fatalf("line=%d after Run want 0", v)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.Chip != "gpiochip0" || c.Consumer != "picofade" || c.CarrierHz != 200 {
		t.Fatalf("defaults=%+v", c)
	}
	c = Config{Chip: "gpiochip4", CarrierHz: 500}.withDefaults()
	if c.Chip != "gpiochip4" || c.CarrierHz != 500 {
		t.Fatalf("overrides lost: %+v", c)
	}
}
