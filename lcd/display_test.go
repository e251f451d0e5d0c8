package lcd

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/harveysanders/picofade/fade"
)

type fakeDevice struct {
	clears int
	row    uint8
	lines  [2]string
}

func (d *fakeDevice) ClearDisplay() {
	d.clears++
	d.lines = [2]string{}
}

func (d *fakeDevice) SetCursor(x, y uint8) { d.row = y }

func (d *fakeDevice) Print(data []byte) { d.lines[d.row] += string(data) }

func TestHandler_TruncatesLines(t *testing.T) {
	dev := &fakeDevice{}
	msgs := make(chan Message, 1)
	h := NewHandler(dev, msgs, slog.New(slog.NewTextHandler(io.Discard, nil)))

	msgs <- Message{Line1: []byte("going up and up and away"), Line2: []byte("0>8")}
	close(msgs)
	h.Run()

	if dev.clears != 1 {
		t.Fatalf("clears=%d want 1", dev.clears)
	}
	if dev.lines[0] != "going up and up " {
		t.Fatalf("line1=%q want %q", dev.lines[0], "going up and up ")
	}
	if dev.lines[1] != "0>8" {
		t.Fatalf("line2=%q want %q", dev.lines[1], "0>8")
	}
}

func TestSend_DropsWhenFull(t *testing.T) {
	msgs := make(chan Message, 1)
	if !Send(msgs, "a", "b") {
		t.Fatalf("first Send dropped")
	}
	if Send(msgs, "c", "d") {
		t.Fatalf("second Send should drop on a full channel")
	}
	m := <-msgs
	if string(m.Line1) != "a" || string(m.Line2) != "b" {
		t.Fatalf("got %q/%q want a/b", m.Line1, m.Line2)
	}
}

func TestIndicator_ShowPhase(t *testing.T) {
	msgs := make(chan Message, 2)
	ind := Indicator{Messages: msgs}
	for _, p := range fade.Phases() {
		ind.ShowPhase(p)
	}
	up, down := <-msgs, <-msgs
	if string(up.Line1) != "going up" || string(up.Line2) != "0>8>32>100" {
		t.Fatalf("up=%q/%q", up.Line1, up.Line2)
	}
	if string(down.Line1) != "going down" || string(down.Line2) != "100>32>8>0" {
		t.Fatalf("down=%q/%q", down.Line1, down.Line2)
	}
}

type nackBus struct {
	probed []uint16
}

func (b *nackBus) Tx(addr uint16, w, r []byte) error {
	b.probed = append(b.probed, addr)
	return errors.New("nack")
}

func TestConfigure_NoDevice(t *testing.T) {
	bus := &nackBus{}
	_, err := Configure(bus)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "0x27") || !strings.Contains(err.Error(), "0x3f") {
		t.Fatalf("err=%q should list probed addresses", err)
	}
	if len(bus.probed) != 2 || bus.probed[0] != 0x27 || bus.probed[1] != 0x3F {
		t.Fatalf("probed=%v want [0x27 0x3f]", bus.probed)
	}
}
