package hal

import "errors"

var (
	ErrTaken              = errors.New("peripherals already taken")
	ErrUnachievable       = errors.New("frequency and resolution not achievable by the clock divider")
	ErrInvalidTimer       = errors.New("invalid timer")
	ErrInvalidChannel     = errors.New("invalid channel")
	ErrTimerNotConfigured = errors.New("timer not configured")
	ErrChannelInUse       = errors.New("channel already in use")
	ErrPinInUse           = errors.New("pin already in use")
	ErrPinMode            = errors.New("pin is not a push-pull output")
	ErrInvalidPin         = errors.New("invalid pin")
	ErrDuty               = errors.New("duty out of range")
	ErrStartDuty          = errors.New("fade start duty out of range")
	ErrEndDuty            = errors.New("fade end duty out of range")
	ErrDutyRange          = errors.New("fade duty range is empty")
	ErrDuration           = errors.New("fade duration not achievable")
)

// Error records the peripheral operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err annotated with op, or nil if err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
