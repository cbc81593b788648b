package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/msdsim/internal/analysis"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/experiment"
	"github.com/san-kum/msdsim/internal/export"
	"github.com/san-kum/msdsim/internal/physics"
	"github.com/san-kum/msdsim/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveConfig layers, lowest first: defaults or --preset, --config file,
// MSDSIM_* environment, explicit flags.
func resolveConfig(v *viper.Viper) (*config.Config, error) {
	name, path := v.GetString("preset"), v.GetString("config")

	var cfg *config.Config
	switch {
	case name != "":
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		if path != "" {
			if err := cfg.Merge(path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	case path != "":
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if v.IsSet("model") {
		cfg.Model = v.GetString("model")
	}
	if v.IsSet("k") {
		cfg.Params.K = v.GetFloat64("k")
	}
	if v.IsSet("c") {
		cfg.Params.C = v.GetFloat64("c")
	}
	if v.IsSet("m") {
		cfg.Params.M = v.GetFloat64("m")
	}
	if v.IsSet("x0") {
		cfg.Init.Pos = v.GetFloat64("x0")
	}
	if v.IsSet("v0") {
		cfg.Init.Vel = v.GetFloat64("v0")
	}
	if v.IsSet("steps") {
		cfg.Steps = v.GetInt("steps")
	}
	if v.IsSet("dt") {
		cfg.Dt = v.GetFloat64("dt")
	}
	if v.IsSet("out") {
		cfg.Output.Dir = v.GetString("out")
	}
	if v.IsSet("store") {
		cfg.Output.Store = v.GetString("store")
	}
	if v.IsSet("format") {
		cfg.Output.Format = v.GetString("format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, kind, dir string) (storage.Store, error) {
	st, err := storage.NewStore(kind, dir)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func runSimulation(cmd *cobra.Command, v *viper.Viper) error {
	start := time.Now()

	cfg, err := resolveConfig(v)
	if err != nil {
		return err
	}

	if path := v.GetString("save-config"); path != "" {
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := slog.Default().With(slog.String("model", cfg.Model))

	exp, err := experiment.New(cfg.PhysicsParams(), logger)
	if err != nil {
		return err
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg.Output.Store, cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(st)

	meta := storage.NewRunMetadata(cfg.Model, exp.Params(), result.Metrics)
	meta.ID = storage.NewRunID(start)
	meta.Timestamp = start

	runID, err := st.Save(ctx, meta, result.Trajectory)
	if err != nil {
		return err
	}
	logger.Info("run saved", slog.String("id", runID), slog.String("store", cfg.Output.Store))

	layout := config.NewLayout(cfg.Output.Dir, runID)
	var figure string
	if result.Metrics["finite"] < 1 {
		logger.Warn("skipping figure for non-finite trajectory", slog.String("id", runID))
	} else {
		figure, err = writeFigure(layout, cfg, result.Trajectory)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(runID, cfg, exp.System(), result))
	if cfg.Output.Store == "file" {
		fmt.Fprintf(out, "%s %s\n", MetricLabel.Render("csv:"), layout.CSVPath(cfg.Model))
	}
	if figure != "" {
		fmt.Fprintf(out, "%s %s\n", MetricLabel.Render("figure:"), figure)
	}
	fmt.Fprintf(out, "All completed in %.3f s.\n", time.Since(start).Seconds())
	return nil
}

// writeFigure renders position over time into the run directory and returns
// the file written, or "" for format none and single-sample runs.
func writeFigure(layout config.Layout, cfg *config.Config, tr *dynamo.Trajectory) (string, error) {
	if cfg.Output.Format == "none" || tr.Len() < 2 {
		return "", nil
	}
	if err := layout.Create(); err != nil {
		return "", err
	}

	path := layout.FigurePath(cfg.Model, cfg.Output.Format)
	switch cfg.Output.Format {
	case "png":
		if err := export.WritePNG(path, tr, export.DefaultPlotOptions()); err != nil {
			return "", fmt.Errorf("write figure: %w", err)
		}
	case "svg":
		if err := export.WriteSVG(path, tr); err != nil {
			return "", fmt.Errorf("write figure: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown plot format: %s", cfg.Output.Format)
	}
	return path, nil
}

func listRuns(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()
	st, err := openStore(ctx, v.GetString("store"), v.GetString("out"))
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(st)

	runs, err := st.List(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tK\tC\tM\tSTEPS\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%d\t%g\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.K,
			run.C,
			run.M,
			run.Steps,
			run.Dt,
		)
	}
	return w.Flush()
}

// loadRun reads metadata and samples of runID from the configured store.
func loadRun(cmd *cobra.Command, v *viper.Viper, runID string) (*storage.RunMetadata, *dynamo.Trajectory, error) {
	ctx := cmd.Context()
	st, err := openStore(ctx, v.GetString("store"), v.GetString("out"))
	if err != nil {
		return nil, nil, err
	}
	defer storage.CloseIfSupported(st)

	meta, err := st.Load(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	tr, err := st.LoadTrajectory(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, tr, nil
}

func plotRun(cmd *cobra.Command, v *viper.Viper, runID string) error {
	meta, tr, err := loadRun(cmd, v, runID)
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, Title.Render("run "+meta.ID))
	fmt.Fprintf(out, "model: %s\nsamples: %d\n\n", meta.Model, tr.Len())

	captions := []string{"position x", "velocity v"}
	for i, caption := range captions {
		graph := asciigraph.Plot(tr.Component(i),
			asciigraph.Height(v.GetInt("height")),
			asciigraph.Width(v.GetInt("width")),
			asciigraph.Caption(caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, v *viper.Viper, runID string) error {
	meta, tr, err := loadRun(cmd, v, runID)
	if err != nil {
		return err
	}
	return export.ExportJSON(cmd.OutOrStdout(), meta, tr)
}

func analyzeRun(cmd *cobra.Command, v *viper.Viper, runID string) error {
	meta, tr, err := loadRun(cmd, v, runID)
	if err != nil {
		return err
	}

	spectrum, err := analysis.PowerSpectrum(tr, 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, Title.Render("frequency analysis: "+meta.ID))

	plotData := spectrum.Power
	if len(plotData) > 8 {
		plotData = plotData[:len(plotData)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(v.GetInt("width")),
		asciigraph.Caption("power spectrum (x)"),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	freq, _ := spectrum.Peak()
	fmt.Fprintln(out, metricLine("dominant", fmt.Sprintf("%.4f (omega %.4f)", freq, 2*math.Pi*freq)))
	fmt.Fprintln(out, metricLine("resolution", fmt.Sprintf("%.4f", spectrum.Resolution)))
	if freq > 0 {
		fmt.Fprintln(out, metricLine("period", fmt.Sprintf("%.4f", 1/freq)))
	}

	sys := physics.NewMassSpringDamper(meta.Params())
	fmt.Fprintln(out, metricLine("omega_d", fmt.Sprintf("%.4f", sys.DampedFrequency())))
	return nil
}

func phasePlot(cmd *cobra.Command, v *viper.Viper, runID string) error {
	meta, tr, err := loadRun(cmd, v, runID)
	if err != nil {
		return err
	}

	portrait := analysis.NewPhasePortrait(tr, 0, 1)
	if len(portrait.Points) == 0 {
		return fmt.Errorf("no finite samples in run %s", meta.ID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, Title.Render("phase portrait: "+meta.ID))
	fmt.Fprintln(out, MetricLabel.Render("horizontal x, vertical v"))
	fmt.Fprint(out, portrait.ASCII(v.GetInt("width"), v.GetInt("height")))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, Title.Render("presets"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tK\tC\tM\tSTEPS\tDT\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%d\t%g\t%s\n",
			name, p.Params.K, p.Params.C, p.Params.M, p.Steps, p.Dt, p.Comment)
	}
	return w.Flush()
}

func benchModel(cmd *cobra.Command, args []string) error {
	durations := []float64{1.0, 10.0, 100.0}
	dts := []float64{0.001, 0.01, 0.1}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, Title.Render("benchmarking rk4 on msd_model"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, dt := range dts {
			p := physics.DefaultParams()
			p.Dt = dt
			p.Steps = int(dur/dt + 0.5)

			exp, err := experiment.New(p, slog.Default())
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, dt, result.StepsTaken, elapsed, stepsPerSec)
		}
	}
	return w.Flush()
}
