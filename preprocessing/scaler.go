// Package preprocessing provides data preprocessing utilities for machine learning.
//
// This package implements scikit-learn compatible preprocessing components including:
//
//   - StandardScaler: Standardizes features by removing the mean and scaling to unit variance
//   - LabelEncoder: Maps the distinct string values of one column to integer codes
//
// All preprocessing components follow the scikit-learn API pattern with Fit, Transform,
// and FitTransform methods and embed model.BaseEstimator for fitted-state tracking.
//
// Example usage:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(XTrain) // statistics come from the training partition only
//	if err != nil {
//		return err
//	}
//	XTestScaled, err := scaler.Transform(XTest)
//
// Scalers are never refit by Transform: it always uses the statistics captured
// by the last Fit.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/carprice/core/model"
	scigoErrors "github.com/ezoic/carprice/pkg/errors"
)

// minScale is the standard deviation below which a feature is treated as constant.
const minScale = 1e-8

// StandardScaler is a scikit-learn compatible z-score scaler.
// Transformed features have zero mean and unit variance on the data used for Fit.
type StandardScaler struct {
	model.BaseEstimator

	// Mean holds the per-feature mean (zeros when WithMean is false).
	Mean []float64

	// Var holds the per-feature population variance.
	Var []float64

	// Scale holds the per-feature standard deviation; constant features get 1.
	Scale []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	// NSamplesSeen is the number of rows seen during Fit.
	NSamplesSeen int

	// WithMean controls centering (default: true).
	WithMean bool

	// WithStd controls scaling to unit variance (default: true).
	WithStd bool
}

// NewStandardScaler creates a new StandardScaler for feature standardization.
//
// Parameters:
//   - withMean: whether to center the data at zero by removing the mean
//   - withStd: whether to scale the data to unit variance
//
// Example:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(XTrain)
//	XScaled, err := scaler.Transform(XTest)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault returns a scaler that both centers and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes per-feature mean and standard deviation from X.
//
// The variance is the population (biased) variance, matching scikit-learn.
//
// Errors:
//   - ErrEmptyData: if X has no rows or no columns
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer scigoErrors.Recover(&err, "StandardScaler.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return scigoErrors.NewModelError("StandardScaler.Fit", "empty data", scigoErrors.ErrEmptyData)
	}

	s.NFeatures = c
	s.NSamplesSeen = r
	s.Mean = make([]float64, c)
	s.Var = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Var[j] = variance

		if s.WithMean {
			s.Mean[j] = mean
		}

		s.Scale[j] = 1.0
		if s.WithStd {
			if std := math.Sqrt(variance); std >= minScale {
				s.Scale[j] = std
			}
		}
	}

	s.SetFitted()
	return nil
}

// Transform standardizes X with the fitted statistics: (x - mean) / scale.
//
// Errors:
//   - ErrNotFitted: if Fit has not been called
//   - ErrDimensionMismatch: if X does not have NFeatures columns
func (s *StandardScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer scigoErrors.Recover(&err, "StandardScaler.Transform")
	if !s.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, scigoErrors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)

	return result, nil
}

// TransformRow standardizes a single observation.
func (s *StandardScaler) TransformRow(row []float64) (_ []float64, err error) {
	defer scigoErrors.Recover(&err, "StandardScaler.TransformRow")
	if !s.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("StandardScaler", "TransformRow")
	}
	if len(row) == 0 {
		return nil, scigoErrors.NewDimensionError("StandardScaler.TransformRow", s.NFeatures, 0, 1)
	}
	scaled, err := s.Transform(mat.NewDense(1, len(row), append([]float64(nil), row...)))
	if err != nil {
		return nil, err
	}
	return mat.Row(nil, 0, scaled), nil
}

// FitTransform fits on X and returns X standardized.
func (s *StandardScaler) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer scigoErrors.Recover(&err, "StandardScaler.FitTransform")
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back: x * scale + mean.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer scigoErrors.Recover(&err, "StandardScaler.InverseTransform")
	if !s.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, scigoErrors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)

	return result, nil
}

// GetParams returns the scaler's hyperparameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}
