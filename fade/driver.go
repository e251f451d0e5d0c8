package fade

import "log/slog"

// Indicator is told when a phase begins, for displays and status LEDs.
type Indicator interface {
	ShowPhase(p Phase)
}

// Driver repeats the ascending and descending phases.
type Driver struct {
	seq        *Sequencer
	logger     *slog.Logger
	indicators []Indicator
}

func NewDriver(seq *Sequencer, logger *slog.Logger, indicators ...Indicator) *Driver {
	return &Driver{
		seq:        seq,
		logger:     logger,
		indicators: indicators,
	}
}

// Cycle runs both phases once.
func (d *Driver) Cycle() error {
	for _, p := range Phases() {
		d.logger.Info(p.Message)
		for _, ind := range d.indicators {
			ind.ShowPhase(p)
		}
		for _, step := range p.Steps {
			if err := d.seq.Fade(step); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run cycles forever. It only returns when a fade is rejected.
func (d *Driver) Run() error {
	for {
		if err := d.Cycle(); err != nil {
			return err
		}
	}
}
