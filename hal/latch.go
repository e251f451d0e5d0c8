package hal

import "sync/atomic"

// Latch guards a peripheral set that may be taken once per process.
// The zero value is ready to use.
type Latch struct {
	taken atomic.Bool
}

// Take succeeds on the first call and returns ErrTaken afterwards.
func (l *Latch) Take() error {
	if !l.taken.CompareAndSwap(false, true) {
		return ErrTaken
	}
	return nil
}
