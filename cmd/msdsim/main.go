package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/msdsim/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix scopes environment overrides, e.g. MSDSIM_DT=0.001.
const envPrefix = "MSDSIM"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers every subcommand on a fresh viper instance so that
// flag, environment and file layers never leak between invocations.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:          "msdsim",
		Short:        "damped spring-mass oscillator integrated with fixed-step RK4",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return setupLogger(cmd, v.GetString("log-level"))
		},
	}

	rootCmd.PersistentFlags().String("out", config.DefaultOutDir, "output base directory")
	rootCmd.PersistentFlags().String("store", config.DefaultStore, "run store backend (file, sqlite)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate the oscillator and write CSV and plot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, v)
		},
	}
	runCmd.Flags().String("config", "", "config file path (yaml)")
	runCmd.Flags().String("preset", "", "start from a named preset")
	runCmd.Flags().String("save-config", "", "write the resolved configuration to this yaml file")
	runCmd.Flags().String("model", config.DefaultModel, "model name used in output file names")
	runCmd.Flags().Float64("k", 1, "spring stiffness")
	runCmd.Flags().Float64("c", 1, "damping coefficient")
	runCmd.Flags().Float64("m", 1, "mass")
	runCmd.Flags().Float64("x0", 0, "initial position")
	runCmd.Flags().Float64("v0", 1, "initial velocity")
	runCmd.Flags().Int("steps", 1000, "number of RK4 steps")
	runCmd.Flags().Float64("dt", 0.01, "timestep")
	runCmd.Flags().String("format", config.DefaultFormat, "figure format (png, svg, none)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, v)
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position and velocity of a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return plotRun(cmd, v, args[0])
		},
	}
	plotCmd.Flags().Int("width", 80, "plot width")
	plotCmd.Flags().Int("height", 10, "plot height")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportJSON(cmd, v, args[0])
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the position signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeRun(cmd, v, args[0])
		},
	}
	analyzeCmd.Flags().Int("width", 80, "plot width")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of position against velocity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return phasePlot(cmd, v, args[0])
		},
	}
	phaseCmd.Flags().Int("width", 60, "plot width")
	phaseCmd.Flags().Int("height", 20, "plot height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark RK4 throughput at several step sizes",
		Args:  cobra.NoArgs,
		RunE:  benchModel,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, analyzeCmd, phaseCmd, presetsCmd, benchCmd)
	return rootCmd
}

func setupLogger(cmd *cobra.Command, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}
