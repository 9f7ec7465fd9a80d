// Package model provides the estimator abstractions shared by the
// preprocessing, tree and ensemble packages.
//
//   - BaseEstimator: embeddable fitted-state tracking
//   - StateManager: the same state held by composition, plus the data
//     dimensions seen at fit time
//   - Transformer / Regressor: the interfaces a pipeline composes
//
// Example usage:
//
//	type MyScaler struct {
//		model.BaseEstimator
//	}
//
//	func (s *MyScaler) Fit(X mat.Matrix) error {
//		// compute statistics
//		s.SetFitted()
//		return nil
//	}
//
// Nothing here is persisted: fitted estimators live for the lifetime of
// the process only.
package model

import "gonum.org/v1/gonum/mat"

// EstimatorState represents the learning state of a model
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained
	Fitted
)

// BaseEstimator is the base structure for preprocessing estimators.
type BaseEstimator struct {
	State EstimatorState

	hyperparameters map[string]interface{}
}

// IsFitted returns whether the estimator has been fitted with training data.
//
// Example:
//
//	if !scaler.IsFitted() {
//	    if err := scaler.Fit(XTrain); err != nil {
//	        return err
//	    }
//	}
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted. Only estimator implementations
// should call it, at the end of a successful Fit.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to its initial untrained state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}

// GetParams retrieves the hyperparameters (scikit-learn compatible).
// With deep set, a copy is returned.
func (e *BaseEstimator) GetParams(deep bool) map[string]interface{} {
	if e.hyperparameters == nil {
		return make(map[string]interface{})
	}

	if !deep {
		return e.hyperparameters
	}

	params := make(map[string]interface{}, len(e.hyperparameters))
	for k, v := range e.hyperparameters {
		params[k] = v
	}
	return params
}

// SetParams sets hyperparameters (scikit-learn compatible)
func (e *BaseEstimator) SetParams(params map[string]interface{}) error {
	if e.hyperparameters == nil {
		e.hyperparameters = make(map[string]interface{})
	}

	for k, v := range params {
		e.hyperparameters[k] = v
	}

	return nil
}

// Transformer is a stateful feature transformation fitted on X alone.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// Regressor is a supervised estimator predicting one continuous target.
// Predict returns an (n_samples, 1) matrix.
type Regressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}
