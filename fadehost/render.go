package main

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

const barWidth = 20

// levelSource reports a channel's duty as a fraction in [0, 1].
type levelSource interface {
	Level() float64
}

var barColors = []*color.Color{
	color.New(color.FgRed, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// renderBars draws one bar per level, colored red, green, blue in order.
func renderBars(levels []float64) string {
	var sb strings.Builder
	for i, lvl := range levels {
		if lvl < 0 {
			lvl = 0
		}
		if lvl > 1 {
			lvl = 1
		}
		filled := int(lvl*barWidth + 0.5)
		bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
		pct := strconv.Itoa(int(lvl*100 + 0.5))
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(barColors[i%len(barColors)].Sprint(bar))
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat(" ", 3-len(pct)) + pct + "%")
	}
	return sb.String()
}

func renderLoop(ctx context.Context, w io.Writer, outputs []levelSource, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	levels := make([]float64, len(outputs))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i, o := range outputs {
				levels[i] = o.Level()
			}
			io.WriteString(w, "\r"+renderBars(levels))
		}
	}
}
