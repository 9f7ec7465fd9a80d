package errors_test

import (
	"errors"
	"fmt"

	scigoErrors "github.com/ezoic/carprice/pkg/errors"
)

// Example demonstrates Go 1.13+ error wrapping
func Example() {
	// Create a base error
	baseErr := fmt.Errorf("invalid input value")

	// Wrap the error with context using Go 1.13+ syntax
	wrappedErr := fmt.Errorf("model validation failed: %w", baseErr)

	// Further wrap with operation context
	opErr := fmt.Errorf("RandomForestRegressor.Fit: %w", wrappedErr)

	// Use errors.Is to check for specific error types
	if errors.Is(opErr, baseErr) {
		fmt.Println("Found base error in chain")
	}

	// Unwrap errors to get the underlying cause
	unwrapped := errors.Unwrap(opErr)
	fmt.Printf("Unwrapped: %v\n", unwrapped)

	// Output: Found base error in chain
	// Unwrapped: model validation failed: invalid input value
}

// Example_customErrorTypes demonstrates custom error type handling
func Example_customErrorTypes() {
	// Create a custom error using our error constructors
	dimErr := scigoErrors.NewDimensionError("StandardScaler.Transform", 7, 6, 1)

	// Wrap it with additional context
	wrappedErr := fmt.Errorf("preprocessing failed: %w", dimErr)

	// Check if error is of specific type using errors.As
	var dimensionErr *scigoErrors.DimensionError
	if errors.As(wrappedErr, &dimensionErr) {
		fmt.Printf("Dimension error: expected %d, got %d\n",
			dimensionErr.Expected, dimensionErr.Got)
	}

	// Output: Dimension error: expected 7, got 6
}

// Example_errorComparison demonstrates error comparison patterns
func Example_errorComparison() {
	// Create different types of errors
	notFittedErr := scigoErrors.NewNotFittedError("RandomForestRegressor", "Predict")
	valueErr := scigoErrors.NewValueError("LabelEncoder", "y contains previously unseen labels")

	// Create a sentinel error for comparison
	customErr := errors.New("custom processing error")
	wrappedCustom := fmt.Errorf("operation failed: %w", customErr)

	// Use errors.Is for sentinel error checking
	if errors.Is(wrappedCustom, customErr) {
		fmt.Println("Custom error detected")
	}

	// Use errors.As for type assertions
	var notFitted *scigoErrors.NotFittedError
	if errors.As(notFittedErr, &notFitted) {
		fmt.Printf("Model %s is not fitted for %s\n",
			notFitted.ModelName, notFitted.Method)
	}

	var valErr *scigoErrors.ValueError
	if errors.As(valueErr, &valErr) {
		fmt.Printf("Value error in %s: %s\n", valErr.Op, valErr.Message)
	}

	// Output: Custom error detected
	// Model RandomForestRegressor is not fitted for Predict
	// Value error in LabelEncoder: y contains previously unseen labels
}

// Example_errorChaining demonstrates error chaining across pipeline stages
func Example_errorChaining() {
	// Simulate a machine learning pipeline error
	simulateMLError := func() error {
		dataErr := fmt.Errorf("invalid Year value")
		prepErr := fmt.Errorf("parse listings failed: %w", dataErr)
		trainErr := fmt.Errorf("preprocess stage failed: %w", prepErr)

		return trainErr
	}

	err := simulateMLError()

	// Print the full error chain
	fmt.Printf("Error: %v\n", err)

	// Walk through the error chain
	current := err
	level := 0
	for current != nil {
		fmt.Printf("Level %d: %v\n", level, current)
		current = errors.Unwrap(current)
		level++
	}

	// Output: Error: preprocess stage failed: parse listings failed: invalid Year value
	// Level 0: preprocess stage failed: parse listings failed: invalid Year value
	// Level 1: parse listings failed: invalid Year value
	// Level 2: invalid Year value
}

// Example_errorLogging demonstrates structured error logging
func Example_errorLogging() {
	// Create a complex error with context
	baseErr := scigoErrors.NewModelError("dataset.Read", `missing column "Owner"`,
		scigoErrors.ErrMissingColumn)

	opErr := fmt.Errorf("load stage: %w", baseErr)

	// log.LogError(opErr, "...") would also record the stack via "%+v".
	fmt.Printf("Error occurred while loading: %v\n", opErr)

	// Output: Error occurred while loading: load stage: goml: dataset.Read: missing column "Owner": missing column
}
