// Package metrics provides evaluation metrics for regression models.
//
// Regression Metrics:
//   - MSE: Mean Squared Error
//   - RMSE: Root Mean Squared Error
//   - MAE: Mean Absolute Error
//   - R2Score: coefficient of determination
//   - MAPE: Mean Absolute Percentage Error
//   - ExplainedVarianceScore: proportion of variance explained
//
// Evaluate computes the report printed after training:
//
//	report, err := metrics.Evaluate(yTest, yPred)
//	fmt.Printf("Mean Absolute Error: %v\n", report.MAE)
//
// All functions take *mat.VecDense inputs of equal, non-zero length.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	scigoErrors "github.com/ezoic/carprice/pkg/errors"
)

// checkPair validates a (yTrue, yPred) pair and returns its length.
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.IsEmpty() {
		return 0, scigoErrors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, scigoErrors.NewValueError(op, "empty vector")
	}
	if yPred.IsEmpty() || yPred.Len() != n {
		got := 0
		if !yPred.IsEmpty() {
			got = yPred.Len()
		}
		return 0, scigoErrors.NewDimensionError(op, n, got, 0)
	}
	return n, nil
}

// residuals returns yTrue - yPred.
func residuals(yTrue, yPred *mat.VecDense) []float64 {
	var diff mat.VecDense
	diff.SubVec(yTrue, yPred)
	return mat.Col(nil, 0, &diff)
}

// MSE calculates the Mean Squared Error: (1/n) * Σ(yTrue - yPred)².
//
// Example:
//
//	mse, err := metrics.MSE(yTrue, yPred)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("MSE: %.4f\n", mse)
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	diff := residuals(yTrue, yPred)
	return floats.Dot(diff, diff) / float64(n), nil
}

// MSEMatrix calculates MSE for (n×1) column matrices such as model predictions.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	a, b, err := columnPair("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MSE(a, b)
}

// RMSE calculates the square root of MSE, in the units of the target.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE calculates the Mean Absolute Error: (1/n) * Σ|yTrue - yPred|.
// It is less sensitive to outliers than MSE.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(residuals(yTrue, yPred), 1) / float64(n), nil
}

// R2Score calculates the coefficient of determination: 1 - RSS/TSS.
//
// The best possible score is 1.0 and it can be negative. When yTrue has no
// variance the score is 1.0 for perfect predictions and 0.0 otherwise,
// matching scikit-learn's force_finite behaviour.
//
// Example:
//
//	r2, err := metrics.R2Score(yTrue, yPred)
//	fmt.Printf("R-squared: %v\n", r2)
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	_, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := mat.Col(nil, 0, yTrue)
	mean := stat.Mean(truth, nil)

	var tss float64
	for _, v := range truth {
		tss += (v - mean) * (v - mean)
	}
	diff := residuals(yTrue, yPred)
	rss := floats.Dot(diff, diff)

	if tss == 0 {
		if rss == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - rss/tss, nil
}

// MAPE calculates the Mean Absolute Percentage Error over rows whose true
// value is non-zero, as a percentage.
func MAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	valid := 0
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		if t == 0 {
			continue
		}
		sum += math.Abs(t-yPred.AtVec(i)) / math.Abs(t)
		valid++
	}

	if valid == 0 {
		return 0, scigoErrors.NewValueError("MAPE", "all yTrue values are zero")
	}
	return sum / float64(valid) * 100, nil
}

// ExplainedVarianceScore calculates 1 - Var(yTrue - yPred) / Var(yTrue).
// Unlike R2Score it ignores a constant offset in the predictions.
func ExplainedVarianceScore(yTrue, yPred *mat.VecDense) (float64, error) {
	_, err := checkPair("ExplainedVarianceScore", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	_, varTrue := stat.PopMeanVariance(mat.Col(nil, 0, yTrue), nil)
	_, varDiff := stat.PopMeanVariance(residuals(yTrue, yPred), nil)

	if varTrue == 0 {
		if varDiff == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - varDiff/varTrue, nil
}

// columnPair converts two (n×1) matrices to vectors.
func columnPair(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return nil, nil, scigoErrors.NewValueError(op, "empty matrix")
	}
	if cTrue != 1 || cPred != 1 {
		return nil, nil, scigoErrors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	if rTrue != rPred {
		return nil, nil, scigoErrors.NewDimensionError(op, rTrue, rPred, 0)
	}

	return mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue)), mat.NewVecDense(rPred, mat.Col(nil, 0, yPred)), nil
}

// R2ScoreMatrix calculates R² for (n×1) column matrices.
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	a, b, err := columnPair("R2ScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(a, b)
}
