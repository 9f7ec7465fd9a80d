package metrics_test

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/metrics"
)

// ExampleMSE demonstrates Mean Squared Error calculation
func ExampleMSE() {
	yTrue := mat.NewVecDense(4, []float64{3.35, 4.75, 7.25, 2.85})
	yPred := mat.NewVecDense(4, []float64{3.35, 4.25, 7.75, 2.85})

	mse, err := metrics.MSE(yTrue, yPred)
	if err != nil {
		// Skip this example if error occurs
		return
	}

	fmt.Printf("MSE: %.4f\n", mse)

	// Output: MSE: 0.1250
}

// ExampleMAE demonstrates Mean Absolute Error calculation
func ExampleMAE() {
	yTrue := mat.NewVecDense(4, []float64{3.35, 4.75, 7.25, 2.85})
	yPred := mat.NewVecDense(4, []float64{3.35, 4.25, 7.75, 2.85})

	mae, err := metrics.MAE(yTrue, yPred)
	if err != nil {
		return
	}

	fmt.Printf("MAE: %.4f\n", mae)

	// Output: MAE: 0.2500
}

// ExampleR2Score demonstrates the perfect-prediction case
func ExampleR2Score() {
	y := mat.NewVecDense(3, []float64{1.0, 2.0, 3.0})

	r2, err := metrics.R2Score(y, y)
	if err != nil {
		return
	}

	fmt.Printf("R² Score: %.4f\n", r2)

	// Output: R² Score: 1.0000
}

// ExampleR2Score_imperfectPredictions demonstrates R² with errors
func ExampleR2Score_imperfectPredictions() {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5})

	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		return
	}

	fmt.Printf("R² Score: %.4f\n", r2)

	// Output: R² Score: 0.8000
}

// ExampleReport_WriteTo prints the evaluation block of the report
func ExampleReport_WriteTo() {
	yTrue := mat.NewVecDense(2, []float64{4.0, 6.0})
	yPred := mat.NewVecDense(2, []float64{5.0, 6.0})

	report, err := metrics.Evaluate(yTrue, yPred)
	if err != nil {
		return
	}
	_, _ = report.WriteTo(os.Stdout)

	// Output: Mean Absolute Error: 0.5
	// Mean Squared Error: 0.5
	// R-squared: 0.5
}
