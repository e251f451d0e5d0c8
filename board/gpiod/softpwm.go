package gpiod

import (
	"context"
	"sort"
	"sync"
	"time"
)

// lineSetter is the part of a GPIO line the carrier needs.
type lineSetter interface {
	SetValue(value int) error
}

// softPWM toggles GPIO lines to approximate a duty cycle. Every period all
// lines with a non-zero duty go high and each drops low after its on time.
type softPWM struct {
	mu     sync.Mutex
	period time.Duration
	outs   []*softOutput
}

type softOutput struct {
	p         *softPWM
	line      lineSetter
	raw, full uint32
}

// Set implements ledc.Output.
func (o *softOutput) Set(raw, full uint32) {
	o.p.mu.Lock()
	o.raw, o.full = raw, full
	o.p.mu.Unlock()
}

func newSoftPWM(period time.Duration) *softPWM {
	return &softPWM{period: period}
}

func (p *softPWM) add(line lineSetter) *softOutput {
	p.mu.Lock()
	defer p.mu.Unlock()
	o := &softOutput{p: p, line: line}
	p.outs = append(p.outs, o)
	return o
}

// edge is the moment within a period when output idx goes low.
type edge struct {
	at  time.Duration
	idx int
}

// plan returns the initial level of every output and the falling edges
// within one period, sorted by time.
func (p *softPWM) plan() (levels []int, edges []edge) {
	p.mu.Lock()
	defer p.mu.Unlock()
	levels = make([]int, len(p.outs))
	for i, o := range p.outs {
		if o.full == 0 || o.raw == 0 {
			continue
		}
		levels[i] = 1
		if o.raw >= o.full {
			continue
		}
		on := time.Duration(uint64(p.period) * uint64(o.raw) / uint64(o.full))
		edges = append(edges, edge{at: on, idx: i})
	}
	sort.Slice(edges, func(a, b int) bool { return edges[a].at < edges[b].at })
	return levels, edges
}

// Run drives the lines until ctx is done, then leaves them low.
func (p *softPWM) Run(ctx context.Context) {
	defer p.off()
	for ctx.Err() == nil {
		start := time.Now()
		levels, edges := p.plan()
		p.mu.Lock()
		outs := append([]*softOutput(nil), p.outs...)
		p.mu.Unlock()
		for i, v := range levels {
			_ = outs[i].line.SetValue(v)
		}
		for _, e := range edges {
			time.Sleep(time.Until(start.Add(e.at)))
			_ = outs[e.idx].line.SetValue(0)
		}
		time.Sleep(time.Until(start.Add(p.period)))
	}
}

func (p *softPWM) off() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, o := range p.outs {
		_ = o.line.SetValue(0)
	}
}
