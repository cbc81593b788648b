package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK4 is the classical fourth-order Runge-Kutta scheme with a fixed step.
//
// Stage buffers are sized from the system dimension at construction and
// reused by every Step, so stepping does not allocate.
type RK4 struct {
	sys dynamo.System
	dt  float64

	x0             dynamo.State
	k1, k2, k3, k4 dynamo.State
	stage          dynamo.State
}

// New returns an RK4 integrator for sys with step size dt.
func New(sys dynamo.System, dt float64) (*RK4, error) {
	if err := checkDt(dt); err != nil {
		return nil, err
	}
	n := sys.Dim()
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrZeroDimension, n)
	}
	return &RK4{
		sys:   sys,
		dt:    dt,
		x0:    make(dynamo.State, n),
		k1:    make(dynamo.State, n),
		k2:    make(dynamo.State, n),
		k3:    make(dynamo.State, n),
		k4:    make(dynamo.State, n),
		stage: make(dynamo.State, n),
	}, nil
}

func checkDt(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidStep, dt)
	}
	return nil
}

func (r *RK4) System() dynamo.System { return r.sys }

func (r *RK4) Dt() float64 { return r.dt }

// SetDt replaces the step size used by subsequent steps.
func (r *RK4) SetDt(dt float64) error {
	if err := checkDt(dt); err != nil {
		return err
	}
	r.dt = dt
	return nil
}

// Step advances x in place from t to t+dt and returns it.
// It panics with dynamo.ErrDimensionMismatch if len(x) differs from the
// system dimension.
func (r *RK4) Step(x dynamo.State, t float64) dynamo.State {
	if len(x) != len(r.x0) {
		panic(dynamo.CheckDim(r.sys, x))
	}
	dt := r.dt
	half := dt / 2

	copy(r.x0, x)

	floats.ScaleTo(r.k1, dt, r.sys.Derive(r.x0, t))

	floats.AddScaledTo(r.stage, r.x0, 0.5, r.k1)
	floats.ScaleTo(r.k2, dt, r.sys.Derive(r.stage, t+half))

	floats.AddScaledTo(r.stage, r.x0, 0.5, r.k2)
	floats.ScaleTo(r.k3, dt, r.sys.Derive(r.stage, t+half))

	floats.AddTo(r.stage, r.x0, r.k3)
	floats.ScaleTo(r.k4, dt, r.sys.Derive(r.stage, t+dt))

	for i := range x {
		x[i] = r.x0[i] + (r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])/6
	}
	return x
}

// Advance calls Step exactly steps times starting at t0 and returns the
// trajectory of steps+1 samples, the first being the unmodified initial
// state. Sample k is stamped t0 + k*dt. x holds the final state on return.
//
// The context is checked between steps; on cancellation the samples
// collected so far are returned together with the error.
func (r *RK4) Advance(ctx context.Context, x dynamo.State, t0 float64, steps int) (*dynamo.Trajectory, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: steps=%d", dynamo.ErrParameterBounds, steps)
	}
	if err := dynamo.CheckDim(r.sys, x); err != nil {
		return nil, err
	}

	traj := dynamo.NewTrajectory(steps + 1)
	traj.Append(t0, x)

	for i := 0; i < steps; i++ {
		t := t0 + float64(i)*r.dt
		select {
		case <-ctx.Done():
			return traj, &dynamo.SimulationError{
				Step:    i,
				Time:    t,
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		r.Step(x, t)
		traj.Append(t0+float64(i+1)*r.dt, x)
	}

	return traj, nil
}
