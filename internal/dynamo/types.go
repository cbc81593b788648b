package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a first-order ODE in vector form.
type System interface {
	Dim() int
	Derive(x State, t float64) State
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Trajectory is an append-only sequence of (time, state) samples.
type Trajectory struct {
	Times  []float64
	States []State
}

func NewTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
}

// Append stores a copy of x.
func (tr *Trajectory) Append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x.Clone())
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Component returns the i-th state component of every sample.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		if i < len(s) {
			out[k] = s[i]
		}
	}
	return out
}

// Last returns the final sample, or false for an empty trajectory.
func (tr *Trajectory) Last() (float64, State, bool) {
	if len(tr.Times) == 0 {
		return 0, nil, false
	}
	n := len(tr.Times) - 1
	return tr.Times[n], tr.States[n], true
}

type Result struct {
	Trajectory  *Trajectory
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}
