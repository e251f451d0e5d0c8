package hal

import (
	"errors"
	"sync"
	"testing"
)

func TestLatch_TakeOnce(t *testing.T) {
	var l Latch
	if err := l.Take(); err != nil {
		t.Fatalf("first Take() err=%v", err)
	}
	if err := l.Take(); !errors.Is(err, ErrTaken) {
		t.Fatalf("second Take() err=%v want %v", err, ErrTaken)
	}
}

func TestLatch_ConcurrentTakeHasOneWinner(t *testing.T) {
	var l Latch
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Take() == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("wins=%d want 1", wins)
	}
}

func TestWrap(t *testing.T) {
	if Wrap("timer 0", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
	err := Wrap("timer 0", ErrUnachievable)
	if !errors.Is(err, ErrUnachievable) {
		t.Fatalf("errors.Is failed for %v", err)
	}
	var herr *Error
	if !errors.As(err, &herr) || herr.Op != "timer 0" {
		t.Fatalf("errors.As got %#v", herr)
	}
	want := "timer 0: " + ErrUnachievable.Error()
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}
