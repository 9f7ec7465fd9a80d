package metrics

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Report holds the held-out error metrics of a regression model.
type Report struct {
	MAE  float64
	MSE  float64
	RMSE float64
	R2   float64
	N    int
}

// Evaluate computes MAE, MSE, RMSE and R² for one (yTrue, yPred) pair.
func Evaluate(yTrue, yPred *mat.VecDense) (Report, error) {
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}
	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}
	r2, err := R2Score(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}
	return Report{MAE: mae, MSE: mse, RMSE: rmse, R2: r2, N: yTrue.Len()}, nil
}

// WriteTo prints the three headline metrics, one per line.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "Mean Absolute Error: %v\nMean Squared Error: %v\nR-squared: %v\n", r.MAE, r.MSE, r.R2)
	return int64(n), err
}
