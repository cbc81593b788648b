package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/msdsim/internal/dynamo"
)

func TestMassSpringDamperDerivative_Equilibrium(t *testing.T) {
	sm := NewMassSpringDamper(DefaultParams())
	dx := sm.Derive(dynamo.State{0.0, 0.0}, 0.0)

	if dx[0] != 0 {
		t.Errorf("velocity at equilibrium should be 0, got %f", dx[0])
	}
	if dx[1] != 0 {
		t.Errorf("acceleration at equilibrium should be 0, got %f", dx[1])
	}
}

func TestMassSpringDamperDerivative(t *testing.T) {
	tests := []struct {
		name   string
		p      Params
		x      dynamo.State
		wantDx dynamo.State
	}{
		{"displaced", Params{K: 1, C: 0, M: 1}, dynamo.State{1, 0}, dynamo.State{0, -1}},
		{"moving", Params{K: 1, C: 1, M: 1}, dynamo.State{0, 1}, dynamo.State{1, -1}},
		{"stiff heavy", Params{K: 4, C: 2, M: 2}, dynamo.State{0.5, -1}, dynamo.State{-1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx := NewMassSpringDamper(tt.p).Derive(tt.x, 0)
			for i := range tt.wantDx {
				if math.Abs(dx[i]-tt.wantDx[i]) > 1e-12 {
					t.Errorf("dx[%d] = %f, want %f", i, dx[i], tt.wantDx[i])
				}
			}
		})
	}
}

func TestMassSpringDamperDerivative_IndependentOfHistory(t *testing.T) {
	sm := NewMassSpringDamper(DefaultParams())
	first := sm.Derive(dynamo.State{0.3, -0.2}, 0).Clone()
	sm.Derive(dynamo.State{10, 10}, 5)
	again := sm.Derive(dynamo.State{0.3, -0.2}, 0)

	if first[0] != again[0] || first[1] != again[1] {
		t.Errorf("derivative depends on call history: %v vs %v", first, again)
	}
}

func TestMassSpringDamperDerivative_DimensionMismatchPanics(t *testing.T) {
	sm := NewMassSpringDamper(DefaultParams())
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, dynamo.ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch panic, got %v", r)
		}
	}()
	sm.Derive(dynamo.State{1, 2, 3}, 0)
}

func TestMassSpringDamperEnergy(t *testing.T) {
	sm := NewMassSpringDamper(Params{K: 2, C: 0, M: 4})

	pe := sm.Energy(dynamo.State{1.0, 0.0})
	ke := sm.Energy(dynamo.State{0.0, 1.0})

	if pe != 1.0 {
		t.Errorf("expected potential energy 1.0, got %f", pe)
	}
	if ke != 2.0 {
		t.Errorf("expected kinetic energy 2.0, got %f", ke)
	}
}

func TestMassSpringDamperInitialState(t *testing.T) {
	sm := NewMassSpringDamper(DefaultParams())
	x := sm.InitialState()
	if len(x) != sm.Dim() {
		t.Fatalf("expected %d components, got %d", sm.Dim(), len(x))
	}
	if x[0] != DefaultPosition || x[1] != DefaultVelocity {
		t.Errorf("unexpected initial state %v", x)
	}
	x[0] = 42
	if sm.InitialState()[0] != DefaultPosition {
		t.Error("InitialState must return a fresh slice")
	}
}

func TestMassSpringDamperCharacteristics(t *testing.T) {
	sm := NewMassSpringDamper(Params{K: 4, C: 4, M: 1})
	if got := sm.NaturalFrequency(); got != 2 {
		t.Errorf("natural frequency = %f, want 2", got)
	}
	if got := sm.DampingRatio(); got != 1 {
		t.Errorf("damping ratio = %f, want 1 (critical)", got)
	}
	if got := sm.DampedFrequency(); got != 0 {
		t.Errorf("critically damped system should not oscillate, got %f", got)
	}

	under := NewMassSpringDamper(DefaultParams())
	if got, want := under.DampedFrequency(), math.Sqrt(0.75); math.Abs(got-want) > 1e-15 {
		t.Errorf("damped frequency = %f, want %f", got, want)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr error
	}{
		{"defaults", func(p *Params) {}, nil},
		{"zero dt", func(p *Params) { p.Dt = 0 }, dynamo.ErrInvalidStep},
		{"negative dt", func(p *Params) { p.Dt = -0.01 }, dynamo.ErrInvalidStep},
		{"nan dt", func(p *Params) { p.Dt = math.NaN() }, dynamo.ErrInvalidStep},
		{"negative steps", func(p *Params) { p.Steps = -1 }, dynamo.ErrParameterBounds},
		{"negative mass is allowed", func(p *Params) { p.M = -1 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
