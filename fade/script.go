package fade

import (
	"strconv"
	"time"
)

// Duration is how long every step of the script takes.
const Duration = 500 * time.Millisecond

// Step is one fade from Start to End percent duty.
type Step struct {
	Start uint8
	End   uint8
}

// Valid reports whether both ends are percentages and differ.
func (s Step) Valid() bool {
	return s.Start <= 100 && s.End <= 100 && s.Start != s.End
}

func (s Step) String() string {
	return strconv.Itoa(int(s.Start)) + "->" + strconv.Itoa(int(s.End))
}

// Phase is a named run of steps announced with Message when it begins.
type Phase struct {
	Name    string
	Message string
	Steps   []Step
}

// Phases returns the ascending phase followed by the descending one.
// A new slice is returned on every call.
func Phases() []Phase {
	return []Phase{
		{
			Name:    "ascending",
			Message: "going up",
			Steps:   []Step{{0, 8}, {8, 32}, {32, 100}},
		},
		{
			Name:    "descending",
			Message: "going down",
			Steps:   []Step{{100, 32}, {32, 8}, {8, 0}},
		},
	}
}

// Script returns the six steps of one full cycle in order.
func Script() []Step {
	var steps []Step
	for _, p := range Phases() {
		steps = append(steps, p.Steps...)
	}
	return steps
}
