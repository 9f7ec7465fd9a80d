package preprocessing_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/preprocessing"
)

// ExampleStandardScaler demonstrates basic usage of StandardScaler
func ExampleStandardScaler() {
	X := mat.NewDense(4, 2, []float64{
		1.0, 2.0,
		3.0, 4.0,
		5.0, 6.0,
		7.0, 8.0,
	})

	scaler := preprocessing.NewStandardScaler(true, true)
	err := scaler.Fit(X)
	if err != nil {
		// Skip this example if error occurs
		return
	}

	scaled, err := scaler.Transform(X)
	if err != nil {
		return
	}

	fmt.Printf("Scaled first row: [%.2f, %.2f]\n", scaled.At(0, 0), scaled.At(0, 1))

	// Output: Scaled first row: [-1.34, -1.34]
}

// ExampleStandardScaler_trainOnly shows statistics fitted on the training
// rows being reused for held-out rows.
func ExampleStandardScaler_trainOnly() {
	train := mat.NewDense(3, 1, []float64{10.0, 20.0, 30.0})
	test := mat.NewDense(1, 1, []float64{40.0})

	scaler := preprocessing.NewStandardScalerDefault()
	if err := scaler.Fit(train); err != nil {
		return
	}

	scaled, err := scaler.Transform(test)
	if err != nil {
		return
	}

	fmt.Printf("Train mean: %.1f\n", scaler.Mean[0])
	fmt.Printf("Scaled test value: %.4f\n", scaled.At(0, 0))

	// Output: Train mean: 20.0
	// Scaled test value: 2.4495
}

// ExampleLabelEncoder demonstrates encoding a categorical column
func ExampleLabelEncoder() {
	fuel := []string{"Petrol", "Diesel", "Petrol", "CNG"}

	enc := preprocessing.NewLabelEncoder()
	codes, err := enc.FitTransform(fuel)
	if err != nil {
		return
	}

	fmt.Println("Classes:", enc.Classes)
	fmt.Println("Codes:", codes)

	back, _ := enc.InverseTransform(codes)
	fmt.Println("Decoded:", back)

	// Output: Classes: [CNG Diesel Petrol]
	// Codes: [2 1 2 0]
	// Decoded: [Petrol Diesel Petrol CNG]
}
