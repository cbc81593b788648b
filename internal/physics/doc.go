// Package physics provides dynamical system models for simulation.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [MassSpringDamper]: damped linear oscillator m·x'' + c·x' + k·x = 0
//
// Models also implement [dynamo.Hamiltonian] for energy calculation.
//
// # Energy Conservation
//
// For undamped configurations, use [dynamo.Hamiltonian] to monitor energy drift:
//
//	dyn := physics.NewMassSpringDamper(p)
//	if h, ok := dyn.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
