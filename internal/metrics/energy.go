package metrics

import (
	"math"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// EnergyDrift tracks the maximum relative deviation of a Hamiltonian
// system's energy from its value at the first observed sample. Samples with
// non-finite components or a non-finite energy are skipped.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.System
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	ec, ok := e.dyn.(dynamo.Hamiltonian)
	if !ok || !x.IsValid() {
		return
	}

	energy := ec.Energy(x)
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return
	}

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		if drift > e.maxDrift && !math.IsInf(drift, 1) {
			e.maxDrift = drift
		}
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Final returns the relative drift of the last observed sample.
func (e *EnergyDrift) Final() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	drift := math.Abs(e.currentEnergy-e.initialEnergy) / math.Abs(e.initialEnergy)
	if math.IsInf(drift, 1) {
		return e.maxDrift
	}
	return drift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
