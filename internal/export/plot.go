package export

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultCaption labels the position series of a mass-spring-damper run.
const DefaultCaption = "m-c-k"

var lineBlue = color.RGBA{B: 255, A: 255}

// PlotOptions configures a time/position figure.
type PlotOptions struct {
	Title   string
	Caption string
	XLabel  string
	YLabel  string
	Width   vg.Length
	Height  vg.Length
	DPI     int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Caption: DefaultCaption,
		XLabel:  "t [ms]",
		YLabel:  "x [mm]",
		Width:   8 * vg.Inch,
		Height:  6 * vg.Inch,
		DPI:     96,
	}
}

// PositionPoints pairs every sample time with state component 0.
func PositionPoints(tr *dynamo.Trajectory) plotter.XYs {
	pts := make(plotter.XYs, tr.Len())
	for i := range pts {
		pts[i].X = tr.Times[i]
		pts[i].Y = tr.States[i][0]
	}
	return pts
}

// NewPositionPlot draws position against time as a single blue line.
func NewPositionPlot(tr *dynamo.Trajectory, opts PlotOptions) (*plot.Plot, error) {
	if tr.Len() == 0 {
		return nil, fmt.Errorf("plot: empty trajectory")
	}
	for i, x := range tr.States {
		if !x.IsValid() {
			return nil, fmt.Errorf("plot: sample %d: %w", i, dynamo.ErrInvalidState)
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(PositionPoints(tr))
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = lineBlue
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(opts.Caption, line)
	p.Legend.Top = true

	return p, nil
}

// WritePNG renders the position plot of tr to filename.
func WritePNG(filename string, tr *dynamo.Trajectory, opts PlotOptions) error {
	p, err := NewPositionPlot(tr, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
