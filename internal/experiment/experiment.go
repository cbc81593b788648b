package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/integrators"
	"github.com/san-kum/msdsim/internal/metrics"
	"github.com/san-kum/msdsim/internal/physics"
)

// Experiment runs one fixed-step trajectory of a mass-spring-damper.
type Experiment struct {
	params     physics.Params
	dyn        *physics.MassSpringDamper
	integrator *integrators.RK4
	metrics    []dynamo.Metric
	logger     *slog.Logger
}

// New validates p and builds the model and integrator. A nil logger uses
// slog.Default().
func New(p physics.Params, logger *slog.Logger) (*Experiment, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	dyn := physics.NewMassSpringDamper(p)
	integ, err := integrators.New(dyn, p.Dt)
	if err != nil {
		return nil, err
	}

	return &Experiment{
		params:     p,
		dyn:        dyn,
		integrator: integ,
		metrics:    DefaultMetrics(dyn),
		logger:     logger,
	}, nil
}

func DefaultMetrics(dyn dynamo.System) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(dyn),
		metrics.NewFinite(),
		metrics.NewPeak("peak_x", 0),
		metrics.NewPeak("peak_v", 1),
	}
}

func (e *Experiment) Params() physics.Params { return e.params }

func (e *Experiment) System() *physics.MassSpringDamper { return e.dyn }

// Run integrates Params().Steps steps from t=0 and the initial conditions.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	x := e.dyn.InitialState()

	e.logger.Debug("starting run",
		slog.Int("steps", e.params.Steps),
		slog.Float64("dt", e.params.Dt),
		slog.Float64("zeta", e.dyn.DampingRatio()),
	)
	start := time.Now()

	traj, err := e.integrator.Advance(ctx, x, 0, e.params.Steps)
	if err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		Trajectory: traj,
		Metrics:    metrics.ObserveAll(traj, e.metrics...),
		StepsTaken: traj.Len() - 1,
	}
	for _, m := range e.metrics {
		if d, ok := m.(*metrics.EnergyDrift); ok {
			result.EnergyDrift = d.Final()
		}
	}

	if !x.IsValid() {
		e.logger.Warn("trajectory contains non-finite values",
			slog.Float64("finite", result.Metrics["finite"]),
		)
	}

	e.logger.Debug("run finished",
		slog.Int("samples", traj.Len()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
