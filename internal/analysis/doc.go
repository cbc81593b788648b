// Package analysis inspects finished trajectories.
//
//   - [PowerSpectrum] and [Spectrum.Peak]: magnitude spectrum of one
//     state component and its strongest non-zero bin
//   - [NewPhasePortrait]: the (x, v) phase plane of a run, rendered as text
//     by [PhasePortrait.ASCII]
//
// A lightly damped oscillator spirals into the origin of the phase plane and
// its dominant frequency approaches the damped natural frequency:
//
//	s, _ := analysis.PowerSpectrum(tr, 0)
//	f, _ := s.Peak()
//	omega := 2 * math.Pi * f
package analysis
