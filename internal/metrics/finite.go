package metrics

import "github.com/san-kum/msdsim/internal/dynamo"

// Finite is the fraction of observed samples whose components are all
// finite. It only reports; the integrator never clamps non-finite values.
type Finite struct {
	samples int
	invalid int
}

func NewFinite() *Finite { return &Finite{} }

func (f *Finite) Name() string { return "finite" }

func (f *Finite) Observe(x dynamo.State, t float64) {
	f.samples++
	if !x.IsValid() {
		f.invalid++
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.invalid)/float64(f.samples)
}

func (f *Finite) Reset() {
	f.samples = 0
	f.invalid = 0
}
