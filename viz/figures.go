// Package viz renders the exploratory and evaluation figures as PNG files.
package viz

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ezoic/carprice/pkg/errors"
	"github.com/ezoic/carprice/pkg/log"
)

const (
	histBins   = 20
	kdePoints  = 200
	paletteLen = 64
)

var (
	blue = color.RGBA{B: 255, A: 255}
	red  = color.RGBA{R: 255, A: 255}
)

// DistributionPlot draws a 20-bin histogram of prices with a Gaussian KDE
// curve scaled to bin counts.
func DistributionPlot(prices []float64) (*plot.Plot, error) {
	if len(prices) == 0 {
		return nil, errors.NewModelError("viz.DistributionPlot", "no prices", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = "Distribution of Selling Prices"
	p.X.Label.Text = "Selling_Price"
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(plotter.Values(prices), histBins)
	if err != nil {
		return nil, errors.Wrap(err, "histogram")
	}
	hist.FillColor = color.RGBA{B: 255, A: 128}
	hist.LineStyle.Color = blue
	p.Add(hist)

	lo, hi := floats.Min(prices), floats.Max(prices)
	if hi > lo {
		grid := linspace(lo, hi, kdePoints)
		density := KDE(prices, grid, ScottBandwidth(prices))
		scale := float64(len(prices)) * hist.Width

		pts := make(plotter.XYs, len(grid))
		for i := range grid {
			pts[i].X = grid[i]
			pts[i].Y = density[i] * scale
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrap(err, "kde line")
		}
		line.Color = blue
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	return p, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first
// variable drawn on the top row.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := g.m.SymmetricDim()
	return g.m.At(n-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// HeatmapPlot draws an annotated correlation heatmap on a blue-red scale
// from -1 to 1.
func HeatmapPlot(names []string, corr *mat.SymDense) (*plot.Plot, error) {
	n := corr.SymmetricDim()
	if len(names) != n {
		return nil, errors.NewDimensionError("viz.HeatmapPlot", n, len(names), 0)
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMax(1)
	cm.SetMin(-1)

	grid := corrGrid{m: corr}
	hm := plotter.NewHeatMap(grid, cm.Palette(paletteLen))
	hm.Min, hm.Max = -1, 1

	p := plot.New()
	p.Title.Text = "Feature Correlation Heatmap"
	p.Add(hm)

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			v := grid.Z(c, r)
			if math.IsNaN(v) {
				labels = append(labels, "nan")
			} else {
				labels = append(labels, fmt.Sprintf("%.2f", v))
			}
		}
	}
	annot, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, errors.Wrap(err, "heatmap labels")
	}
	for i := range annot.TextStyle {
		annot.TextStyle[i].XAlign = text.XCenter
		annot.TextStyle[i].YAlign = text.YCenter
		annot.TextStyle[i].Font.Size = vg.Points(7)
	}
	p.Add(annot)

	reversed := make([]string, n)
	for i, name := range names {
		reversed[n-1-i] = name
	}
	p.NominalX(names...)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight

	return p, nil
}

// PredictionPlot draws a red scatter of actual against predicted prices.
func PredictionPlot(actual, predicted []float64) (*plot.Plot, error) {
	if len(actual) != len(predicted) {
		return nil, errors.NewDimensionError("viz.PredictionPlot", len(actual), len(predicted), 0)
	}

	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i] = plotter.XY{X: actual[i], Y: predicted[i]}
	}

	p := plot.New()
	p.Title.Text = "Actual vs. Predicted Selling Price"
	p.X.Label.Text = "Actual Selling Price"
	p.Y.Label.Text = "Predicted Selling Price"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "scatter")
	}
	scatter.GlyphStyle.Color = red
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	return p, nil
}

// SaveExploration writes the 12×5 inch figure with the price distribution on
// the left and the correlation heatmap on the right.
func SaveExploration(path string, prices []float64, names []string, cols [][]float64) error {
	dist, err := DistributionPlot(prices)
	if err != nil {
		return err
	}
	corr, err := CorrelationMatrix(cols)
	if err != nil {
		return err
	}
	heat, err := HeatmapPlot(names, corr)
	if err != nil {
		return err
	}

	img := vgimg.New(12*vg.Inch, 5*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 5,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{{dist, heat}}, tiles, dc)
	dist.Draw(canvases[0][0])
	heat.Draw(canvases[0][1])

	return writePNG(path, img)
}

// SavePredictions writes the 8×5 inch actual-versus-predicted scatter.
func SavePredictions(path string, actual, predicted []float64) error {
	p, err := PredictionPlot(actual, predicted)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create figure directory for %q", path)
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save figure %q", path)
	}
	logSaved(path)
	return nil
}

func writePNG(path string, img *vgimg.Canvas) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create figure directory for %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create figure %q", path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode figure %q", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close figure %q", path)
	}
	logSaved(path)
	return nil
}

func logSaved(path string) {
	log.GetLoggerWithName("viz").Info("Figure saved",
		log.OperationKey, log.OperationRender,
		log.PathKey, path,
	)
}
