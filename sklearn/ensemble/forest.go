// Package ensemble implements bagged tree ensembles.
package ensemble

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/core/model"
	"github.com/ezoic/carprice/core/parallel"
	"github.com/ezoic/carprice/metrics"
	"github.com/ezoic/carprice/pkg/errors"
	"github.com/ezoic/carprice/pkg/log"
	"github.com/ezoic/carprice/sklearn/tree"
)

// RandomForestRegressor averages the predictions of decision trees, each
// fitted on a bootstrap replicate of the training rows.
//
// Given the same data and RandomState, Fit produces the same forest
// regardless of NJobs: every tree's seed is drawn before any tree is fitted.
type RandomForestRegressor struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	nEstimators     int
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	bootstrap       bool
	randomState     uint64
	nJobs           int

	// Fitted state
	estimators_         []*tree.DecisionTreeRegressor
	nFeatures_          int
	featureImportances_ []float64
}

// Option configures a RandomForestRegressor.
type Option func(*RandomForestRegressor)

// WithNEstimators sets the number of trees (default 100).
func WithNEstimators(n int) Option {
	return func(rf *RandomForestRegressor) { rf.nEstimators = n }
}

// WithMaxDepth caps tree depth (0 = unlimited).
func WithMaxDepth(d int) Option {
	return func(rf *RandomForestRegressor) { rf.maxDepth = d }
}

// WithMinSamplesSplit sets the minimum samples needed to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(rf *RandomForestRegressor) { rf.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum samples per leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(rf *RandomForestRegressor) { rf.minSamplesLeaf = n }
}

// WithMaxFeatures sets the features examined per split (0 = all, the
// scikit-learn default for regression).
func WithMaxFeatures(n int) Option {
	return func(rf *RandomForestRegressor) { rf.maxFeatures = n }
}

// WithBootstrap toggles bootstrap sampling (default true).
func WithBootstrap(b bool) Option {
	return func(rf *RandomForestRegressor) { rf.bootstrap = b }
}

// WithRandomState fixes the seed.
func WithRandomState(seed uint64) Option {
	return func(rf *RandomForestRegressor) { rf.randomState = seed }
}

// WithNJobs sets how many goroutines fit trees (default 1, <=0 = all CPUs).
func WithNJobs(n int) Option {
	return func(rf *RandomForestRegressor) { rf.nJobs = n }
}

// NewRandomForestRegressor creates a forest with scikit-learn's defaults:
// 100 fully grown trees, bootstrap sampling and all features per split.
func NewRandomForestRegressor(opts ...Option) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		state:           model.NewStateManager(),
		nEstimators:     100,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		bootstrap:       true,
		nJobs:           1,
	}
	for _, opt := range opts {
		opt(rf)
	}

	rf.logger = log.GetLoggerWithName("ensemble").With(
		log.ModelNameKey, "RandomForestRegressor",
		log.ComponentKey, "ensemble",
	)
	return rf
}

// Fit trains the forest on X (n_samples × n_features) and y (n_samples × 1).
//
// Errors:
//   - ErrEmptyData: if X is empty
//   - ErrDimensionMismatch: if X and y disagree on the number of samples
//   - ErrInvalidInput: if n_estimators < 1
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "RandomForestRegressor.Fit")

	startTime := time.Now()
	n, c := X.Dims()
	ry, cy := y.Dims()

	if n == 0 || c == 0 {
		return errors.NewModelError("RandomForestRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != n {
		return errors.NewDimensionError("RandomForestRegressor.Fit", n, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("RandomForestRegressor.Fit", "y must be a column vector")
	}
	if rf.nEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", rf.nEstimators)
	}

	rf.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.FeaturesKey, c,
		"n_estimators", rf.nEstimators,
		"n_jobs", rf.nJobs,
	)

	XDense := mat.DenseCopyOf(X)
	target := mat.Col(nil, 0, y)

	// Seeds and bootstrap samples are drawn sequentially from one generator.
	rng := rand.New(rand.NewPCG(rf.randomState, rf.randomState))
	seeds := make([]uint64, rf.nEstimators)
	samples := make([][]int, rf.nEstimators)
	for t := range seeds {
		seeds[t] = rng.Uint64()
		samples[t] = rf.drawSample(rng, n)
	}

	trees := make([]*tree.DecisionTreeRegressor, rf.nEstimators)
	errs := make([]error, rf.nEstimators)
	parallel.Parallelize(rf.nEstimators, rf.nJobs, func(start, end int) {
		for t := start; t < end; t++ {
			dt := tree.NewDecisionTreeRegressor(
				tree.WithMaxDepth(rf.maxDepth),
				tree.WithMinSamplesSplit(rf.minSamplesSplit),
				tree.WithMinSamplesLeaf(rf.minSamplesLeaf),
				tree.WithMaxFeatures(rf.maxFeatures),
				tree.WithDTRandomState(seeds[t]),
			)
			errs[t] = dt.FitSample(XDense, target, samples[t])
			trees[t] = dt
		}
	})
	for t, e := range errs {
		if e != nil {
			return errors.Wrapf(e, "failed to fit tree %d", t)
		}
	}

	rf.estimators_ = trees
	rf.nFeatures_ = c
	rf.featureImportances_ = averageImportances(trees, c)

	rf.state.SetFitted()
	rf.state.SetDimensions(c, n)

	rf.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.SamplesKey, n,
		log.FeaturesKey, c,
	)
	return nil
}

func (rf *RandomForestRegressor) drawSample(rng *rand.Rand, n int) []int {
	sample := make([]int, n)
	for i := range sample {
		if rf.bootstrap {
			sample[i] = rng.IntN(n)
		} else {
			sample[i] = i
		}
	}
	return sample
}

func averageImportances(trees []*tree.DecisionTreeRegressor, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	counted := 0
	for _, dt := range trees {
		imp := dt.GetFeatureImportances()
		var sum float64
		for _, v := range imp {
			sum += v
		}
		// Single-leaf trees carry no importance.
		if sum == 0 {
			continue
		}
		for j, v := range imp {
			out[j] += v
		}
		counted++
	}
	if counted > 0 {
		for j := range out {
			out[j] /= float64(counted)
		}
	}
	return out
}

// Predict returns the mean tree prediction for every row of X as an
// (n_samples × 1) matrix.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "RandomForestRegressor.Predict")
	if !rf.state.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "Predict")
	}

	r, c := X.Dims()
	if c != rf.nFeatures_ {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.nFeatures_, c, 1)
	}

	rf.logger.Debug("Prediction started",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	sum := mat.NewDense(r, 1, nil)
	for t, dt := range rf.estimators_ {
		p, err := dt.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "tree %d", t)
		}
		sum.Add(sum, p)
	}
	sum.Scale(1/float64(len(rf.estimators_)), sum)

	rf.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, r,
	)
	return sum, nil
}

// Score returns R² of the predictions on X against y.
func (rf *RandomForestRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rf.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// IsFitted reports whether Fit has completed.
func (rf *RandomForestRegressor) IsFitted() bool {
	return rf.state.IsFitted()
}

// Estimators returns the fitted trees.
func (rf *RandomForestRegressor) Estimators() []*tree.DecisionTreeRegressor {
	return rf.estimators_
}

// FeatureImportances returns the impurity-based importances averaged over
// trees; they sum to 1 unless every tree is a single leaf.
func (rf *RandomForestRegressor) FeatureImportances() []float64 {
	if rf.featureImportances_ == nil {
		return nil
	}
	return append([]float64(nil), rf.featureImportances_...)
}

// GetParams returns the model hyperparameters.
func (rf *RandomForestRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      rf.nEstimators,
		"max_depth":         rf.maxDepth,
		"min_samples_split": rf.minSamplesSplit,
		"min_samples_leaf":  rf.minSamplesLeaf,
		"max_features":      rf.maxFeatures,
		"bootstrap":         rf.bootstrap,
		"random_state":      rf.randomState,
		"n_jobs":            rf.nJobs,
	}
}

func (rf *RandomForestRegressor) String() string {
	return fmt.Sprintf("RandomForestRegressor(n_estimators=%d, random_state=%d)", rf.nEstimators, rf.randomState)
}
