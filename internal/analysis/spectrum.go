package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/msdsim/internal/dynamo"
)

var ErrShortTrajectory = errors.New("analysis: need at least 4 samples")

// Spectrum is the one-sided magnitude spectrum of a uniformly sampled signal.
// Power[i] belongs to frequency i*Resolution.
type Spectrum struct {
	Power      []float64
	Resolution float64
}

// PowerSpectrum transforms component i of tr. Samples must be evenly spaced,
// which Advance guarantees.
func PowerSpectrum(tr *dynamo.Trajectory, i int) (*Spectrum, error) {
	n := tr.Len()
	if n < 4 {
		return nil, ErrShortTrajectory
	}
	dt := tr.Times[1] - tr.Times[0]
	if !(dt > 0) {
		return nil, dynamo.ErrInvalidStep
	}

	coeffs := fft.FFTReal(tr.Component(i))
	power := make([]float64, n/2)
	for k := range power {
		power[k] = cmplx.Abs(coeffs[k])
	}

	return &Spectrum{
		Power:      power,
		Resolution: 1 / (float64(n) * dt),
	}, nil
}

// Peak returns the frequency and magnitude of the strongest bin, skipping DC.
func (s *Spectrum) Peak() (freq, power float64) {
	idx := 0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			power = s.Power[k]
			idx = k
		}
	}
	return float64(idx) * s.Resolution, power
}
