// Package pipeline chains preprocessing transformers with a final regressor,
// in the manner of sklearn.pipeline.Pipeline.
//
// Intermediate steps are fitted on the training data only and are reused
// unchanged when the pipeline predicts:
//
//	p := pipeline.New(
//		pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
//		pipeline.Step{Name: "forest", Estimator: ensemble.NewRandomForestRegressor()},
//	)
//	if err := p.Fit(XTrain, yTrain); err != nil {
//		return err
//	}
//	yPred, err := p.Predict(XTest)
package pipeline

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/core/model"
	"github.com/ezoic/carprice/metrics"
	"github.com/ezoic/carprice/pkg/errors"
	"github.com/ezoic/carprice/pkg/log"
)

// Step is one named stage. Every step but the last must implement
// model.Transformer; the last must implement model.Regressor.
type Step struct {
	Name      string
	Estimator interface{}
}

// Pipeline is a fitted-once chain of transformers ending in a regressor.
type Pipeline struct {
	state  *model.StateManager
	logger log.Logger

	steps       []Step
	namedSteps_ map[string]interface{}
}

// New creates a Pipeline from the given steps.
func New(steps ...Step) *Pipeline {
	named := make(map[string]interface{}, len(steps))
	for _, step := range steps {
		named[step.Name] = step.Estimator
	}
	return &Pipeline{
		state:       model.NewStateManager(),
		logger:      log.GetLoggerWithName("Pipeline").With(log.ComponentKey, "pipeline"),
		steps:       steps,
		namedSteps_: named,
	}
}

// Make names the steps step1, step2, ... like make_pipeline.
func Make(estimators ...interface{}) *Pipeline {
	steps := make([]Step, len(estimators))
	for i, estimator := range estimators {
		steps[i] = Step{Name: fmt.Sprintf("step%d", i+1), Estimator: estimator}
	}
	return New(steps...)
}

// validate checks the step types before any fitting happens.
func (p *Pipeline) validate() (model.Regressor, error) {
	if len(p.steps) == 0 {
		return nil, errors.NewValidationError("steps", "pipeline has no steps", 0)
	}
	for _, step := range p.steps[:len(p.steps)-1] {
		if _, ok := step.Estimator.(model.Transformer); !ok {
			return nil, errors.NewValidationError("pipeline step", "all intermediate steps must be transformers", step.Name)
		}
	}
	final := p.steps[len(p.steps)-1]
	reg, ok := final.Estimator.(model.Regressor)
	if !ok {
		return nil, errors.NewValidationError("pipeline final step", "final step must be a regressor", final.Name)
	}
	return reg, nil
}

// Fit fits each transformer in turn on the output of the previous one, then
// fits the final regressor on the fully transformed X.
func (p *Pipeline) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Pipeline.Fit")
	reg, err := p.validate()
	if err != nil {
		return err
	}

	Xt := X
	for _, step := range p.steps[:len(p.steps)-1] {
		start := time.Now()
		transformer := step.Estimator.(model.Transformer)
		if err = transformer.Fit(Xt); err != nil {
			return errors.Wrap(err, fmt.Sprintf("failed to fit step '%s'", step.Name))
		}
		if Xt, err = transformer.Transform(Xt); err != nil {
			return errors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
		p.logger.Debug("Step fitted",
			"step", step.Name,
			log.OperationKey, log.OperationTransform,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}

	final := p.steps[len(p.steps)-1]
	if err = reg.Fit(Xt, y); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to fit final step '%s'", final.Name))
	}

	r, c := X.Dims()
	p.state.SetFitted()
	p.state.SetDimensions(c, r)
	return nil
}

// Transform applies every transformer step, skipping the regressor.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}
	Xt := X
	var err error
	for _, step := range p.steps[:len(p.steps)-1] {
		Xt, err = step.Estimator.(model.Transformer).Transform(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
	}
	return Xt, nil
}

// Predict transforms X with the fitted steps and predicts with the regressor.
func (p *Pipeline) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "Pipeline.Predict")
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	final := p.steps[len(p.steps)-1]
	pred, err := final.Estimator.(model.Regressor).Predict(Xt)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to predict at step '%s'", final.Name))
	}
	return pred, nil
}

// PredictRow predicts a single raw observation.
func (p *Pipeline) PredictRow(row []float64) (_ float64, err error) {
	defer errors.Recover(&err, "Pipeline.PredictRow")
	if !p.state.IsFitted() {
		return 0, errors.NewNotFittedError("Pipeline", "PredictRow")
	}
	// 空の行は mat.NewDense が panic するため先に弾く
	if len(row) == 0 {
		nFeatures, _ := p.state.GetDimensions()
		return 0, errors.NewDimensionError("Pipeline.PredictRow", nFeatures, 0, 1)
	}
	pred, err := p.Predict(mat.NewDense(1, len(row), append([]float64(nil), row...)))
	if err != nil {
		return 0, err
	}
	return pred.At(0, 0), nil
}

// Score returns R² of the pipeline predictions on X against y.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// IsFitted reports whether Fit has completed.
func (p *Pipeline) IsFitted() bool {
	return p.state.IsFitted()
}

// GetParams returns step parameters prefixed with "<step>__".
func (p *Pipeline) GetParams() map[string]interface{} {
	params := map[string]interface{}{"steps": p.Steps()}
	for _, step := range p.steps {
		getter, ok := step.Estimator.(interface {
			GetParams() map[string]interface{}
		})
		if !ok {
			continue
		}
		for key, value := range getter.GetParams() {
			params[fmt.Sprintf("%s__%s", step.Name, key)] = value
		}
	}
	return params
}

// NamedSteps returns the steps keyed by name.
func (p *Pipeline) NamedSteps() map[string]interface{} {
	return p.namedSteps_
}

// Steps returns a copy of the step list.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}
