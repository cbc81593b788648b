// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Hamiltonian]: optional energy capability of a [System]
//   - [Trajectory]: time-ordered samples produced by repeated stepping
//
// # Example
//
//	dyn := physics.NewMassSpringDamper(physics.DefaultParams())
//	rk4, err := integrators.New(dyn, 0.01)
//	if err != nil {
//	    return err
//	}
//	traj, err := rk4.Advance(ctx, dyn.InitialState(), 0, 1000)
//
// # Buffer Ownership
//
// The slice returned by [System.Derive] may be scratch storage owned by the
// system and overwritten by the next call. Callers copy it before deriving
// again.
//
// # Thread Safety
//
// Systems and integrators are NOT thread-safe. Run independent trajectories
// with independent instances.
package dynamo
