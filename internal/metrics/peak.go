package metrics

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Peak records the largest absolute value seen in one state component.
// Non-finite values are left to the Finite metric.
type Peak struct {
	name      string
	component int
	peak      float64
}

func NewPeak(name string, component int) *Peak {
	return &Peak{name: name, component: component}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.component >= len(x) {
		return
	}
	v := math.Abs(x[p.component])
	if v > p.peak && !math.IsInf(v, 1) {
		p.peak = v
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }

// ObserveAll feeds every sample of tr to each metric and returns the
// resulting values keyed by metric name.
func ObserveAll(tr *dynamo.Trajectory, ms ...dynamo.Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for k, x := range tr.States {
		for _, m := range ms {
			m.Observe(x, tr.Times[k])
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
