package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// Defaults in a consistent mm / ms / kg unit system.
const (
	DefaultStiffness = 1.0  // k [mN/mm]
	DefaultDamping   = 1.0  // c [N/(mm/ms)]
	DefaultMass      = 1.0  // m [kg]
	DefaultPosition  = 0.0  // x0 [mm]
	DefaultVelocity  = 1.0  // v0 [mm/ms]
	DefaultSteps     = 1000 // n
	DefaultDt        = 0.01 // [ms]
)

// Params holds the oscillator constants, initial conditions and stepping
// configuration of one run.
type Params struct {
	K     float64
	C     float64
	M     float64
	X0    float64
	V0    float64
	Steps int
	Dt    float64
}

func DefaultParams() Params {
	return Params{
		K:     DefaultStiffness,
		C:     DefaultDamping,
		M:     DefaultMass,
		X0:    DefaultPosition,
		V0:    DefaultVelocity,
		Steps: DefaultSteps,
		Dt:    DefaultDt,
	}
}

// Validate checks the stepping configuration. Physical constants are not
// range-checked: an unstable combination such as a negative mass yields
// non-finite states that propagate to the output unmodified.
func (p Params) Validate() error {
	if !(p.Dt > 0) {
		return fmt.Errorf("%w: dt=%g", dynamo.ErrInvalidStep, p.Dt)
	}
	if p.Steps < 0 {
		return fmt.Errorf("%w: steps=%d", dynamo.ErrParameterBounds, p.Steps)
	}
	return nil
}

// MassSpringDamper is m*x'' + c*x' + k*x = 0 written as the first-order
// system over the state [x, v].
type MassSpringDamper struct {
	params Params
	dx     dynamo.State
}

func NewMassSpringDamper(p Params) *MassSpringDamper {
	return &MassSpringDamper{
		params: p,
		dx:     make(dynamo.State, 2),
	}
}

func (s *MassSpringDamper) Params() Params { return s.params }

func (s *MassSpringDamper) Dim() int { return 2 }

// Derive returns [v, (-c*v - k*x)/m]. The result aliases an internal buffer
// that is overwritten by the next call.
func (s *MassSpringDamper) Derive(x dynamo.State, t float64) dynamo.State {
	if len(x) != 2 {
		panic(dynamo.CheckDim(s, x))
	}
	p := &s.params
	s.dx[0] = x[1]
	s.dx[1] = (-p.C*x[1] - p.K*x[0]) / p.M
	return s.dx
}

// InitialState returns a fresh [x0, v0].
func (s *MassSpringDamper) InitialState() dynamo.State {
	return dynamo.State{s.params.X0, s.params.V0}
}

// Energy is the total mechanical energy ½m·v² + ½k·x².
func (s *MassSpringDamper) Energy(x dynamo.State) float64 {
	pos, vel := x[0], x[1]
	return 0.5*s.params.M*vel*vel + 0.5*s.params.K*pos*pos
}

// NaturalFrequency returns sqrt(k/m).
func (s *MassSpringDamper) NaturalFrequency() float64 {
	return math.Sqrt(s.params.K / s.params.M)
}

// DampingRatio returns c / (2*sqrt(k*m)).
func (s *MassSpringDamper) DampingRatio() float64 {
	return s.params.C / (2 * math.Sqrt(s.params.K*s.params.M))
}

// DampedFrequency returns the oscillation frequency omega_n*sqrt(1-zeta^2) of
// an underdamped system and 0 otherwise.
func (s *MassSpringDamper) DampedFrequency() float64 {
	zeta := s.DampingRatio()
	if !(zeta < 1) {
		return 0
	}
	return s.NaturalFrequency() * math.Sqrt(1-zeta*zeta)
}
