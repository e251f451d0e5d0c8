package lcd

import (
	"strconv"

	"github.com/harveysanders/picofade/fade"
)

// Indicator shows the phase message on line one and its duty levels on
// line two, e.g. "going up" / "0>8>32>100".
type Indicator struct {
	Messages chan<- Message
}

func (i Indicator) ShowPhase(p fade.Phase) {
	Send(i.Messages, p.Message, levels(p.Steps))
}

func levels(steps []fade.Step) string {
	if len(steps) == 0 {
		return ""
	}
	s := strconv.Itoa(int(steps[0].Start))
	for _, st := range steps {
		s += ">" + strconv.Itoa(int(st.End))
	}
	return s
}
