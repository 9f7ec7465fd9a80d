package viz

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/carprice/pkg/errors"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func TestCorrelationMatrix(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	c := []float64{5, 4, 3, 2, 1}
	k := []float64{7, 7, 7, 7, 7}

	corr, err := CorrelationMatrix([][]float64{a, b, c, k})
	require.NoError(t, err)
	assert.Equal(t, 4, corr.SymmetricDim())
	assert.InDelta(t, 1, corr.At(0, 0), 1e-12)
	assert.InDelta(t, 1, corr.At(0, 1), 1e-12)
	assert.InDelta(t, -1, corr.At(0, 2), 1e-12)
	assert.InDelta(t, -1, corr.At(2, 1), 1e-12)
	assert.True(t, math.IsNaN(corr.At(3, 0)))
	assert.True(t, math.IsNaN(corr.At(1, 3)))
}

func TestCorrelationMatrix_Errors(t *testing.T) {
	_, err := CorrelationMatrix(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = CorrelationMatrix([][]float64{{1, 2, 3}, {1, 2}})
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestKDEIntegratesToOne(t *testing.T) {
	values := []float64{0.2, 0.45, 1.2, 3.35, 4.75, 7.25, 9.25, 23}
	h := ScottBandwidth(values)
	assert.Greater(t, h, 0.0)

	grid := linspace(-40, 70, 4001)
	density := KDE(values, grid, h)
	step := grid[1] - grid[0]
	var area float64
	for _, d := range density {
		assert.GreaterOrEqual(t, d, 0.0)
		area += d * step
	}
	assert.InDelta(t, 1.0, area, 1e-3)
}

func TestScottBandwidth(t *testing.T) {
	// sample std of {1,2,3,4} is sqrt(5/3)
	want := math.Sqrt(5.0/3.0) * math.Pow(4, -0.2)
	assert.InDelta(t, want, ScottBandwidth([]float64{1, 2, 3, 4}), 1e-12)
	assert.Equal(t, 1.0, ScottBandwidth([]float64{3}))
	assert.Equal(t, 1.0, ScottBandwidth([]float64{3, 3, 3}))
}

func TestSaveExploration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figures", "exploration.png")
	prices := []float64{3.35, 4.75, 7.25, 2.85, 4.6, 9.25, 6.75, 0.2}
	names := []string{"Year", "Present_Price", "Selling_Price"}
	cols := [][]float64{
		{2014, 2013, 2017, 2011, 2014, 2018, 2015, 2008},
		{5.59, 9.54, 9.85, 4.15, 6.87, 9.83, 8.12, 0.75},
		prices,
	}

	require.NoError(t, SaveExploration(path, prices, names, cols))
	assertPNG(t, path)
}

func TestSaveExploration_ConstantPrices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exploration.png")
	prices := []float64{5, 5, 5}
	err := SaveExploration(path, prices, []string{"Year", "Selling_Price"}, [][]float64{{2014, 2015, 2016}, prices})
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestSavePredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.png")
	require.NoError(t, SavePredictions(path, []float64{1, 2, 3}, []float64{1.1, 1.9, 3.2}))
	assertPNG(t, path)

	err := SavePredictions(path, []float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestHeatmapPlot_NameMismatch(t *testing.T) {
	corr, err := CorrelationMatrix([][]float64{{1, 2, 3}, {3, 1, 2}})
	require.NoError(t, err)
	_, err = HeatmapPlot([]string{"only"}, corr)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}
