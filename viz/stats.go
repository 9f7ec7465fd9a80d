package viz

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ezoic/carprice/pkg/errors"
)

// CorrelationMatrix returns the Pearson correlation of the given columns.
// Pairs involving a constant column are NaN.
func CorrelationMatrix(cols [][]float64) (*mat.SymDense, error) {
	if len(cols) == 0 || len(cols[0]) < 2 {
		return nil, errors.NewModelError("viz.CorrelationMatrix", "need at least two rows", errors.ErrEmptyData)
	}
	n := len(cols[0])
	X := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		if len(col) != n {
			return nil, errors.NewDimensionError("viz.CorrelationMatrix", n, len(col), 0)
		}
		X.SetCol(j, col)
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, X, nil)
	for j, col := range cols {
		if stat.Variance(col, nil) == 0 {
			for k := range cols {
				corr.SetSym(j, k, math.NaN())
			}
		}
	}
	return &corr, nil
}

// ScottBandwidth returns Scott's rule bandwidth, σ·n^(-1/5).
func ScottBandwidth(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 1
	}
	sd := stat.StdDev(values, nil)
	if sd == 0 {
		return 1
	}
	return sd * math.Pow(n, -0.2)
}

// KDE evaluates a Gaussian kernel density estimate of values at each point
// of grid using bandwidth h.
func KDE(values, grid []float64, h float64) []float64 {
	out := make([]float64, len(grid))
	if len(values) == 0 {
		return out
	}
	kernel := distuv.Normal{Mu: 0, Sigma: h}
	for i, x := range grid {
		var sum float64
		for _, v := range values {
			sum += kernel.Prob(x - v)
		}
		out[i] = sum / float64(len(values))
	}
	return out
}

// linspace returns n evenly spaced points over [lo, hi].
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
