package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/physics"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	Warning = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffaa00"))
)

func metricLine(label, value string) string {
	return MetricLabel.Render(fmt.Sprintf("%-14s", label)) + MetricValue.Render(value)
}

// renderSummary boxes the run parameters and metrics for the terminal.
func renderSummary(runID string, cfg *config.Config, sys *physics.MassSpringDamper, result *dynamo.Result) string {
	p := sys.Params()
	lines := []string{
		Title.Render("run " + runID),
		"",
		metricLine("model", cfg.Model),
		metricLine("k, c, m", fmt.Sprintf("%g, %g, %g", p.K, p.C, p.M)),
		metricLine("x0, v0", fmt.Sprintf("%g, %g", p.X0, p.V0)),
		metricLine("steps", fmt.Sprintf("%d x %g", result.StepsTaken, p.Dt)),
		metricLine("omega_n", fmt.Sprintf("%.6f", sys.NaturalFrequency())),
		metricLine("zeta", fmt.Sprintf("%.6f", sys.DampingRatio())),
	}

	if t, x, ok := result.Trajectory.Last(); ok {
		lines = append(lines, metricLine("final", fmt.Sprintf("t=%g x=%.6f v=%.6f", t, x[0], x[1])))
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	lines = append(lines, "")
	for _, name := range names {
		lines = append(lines, metricLine(name, fmt.Sprintf("%.6g", result.Metrics[name])))
	}

	if result.Metrics["finite"] < 1 {
		lines = append(lines, "", Warning.Render("trajectory contains NaN or Inf values"))
	}

	return Panel.Render(strings.Join(lines, "\n"))
}
