package tree

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/core/model"
	"github.com/ezoic/carprice/pkg/errors"
)

// impurityTolerance is the node variance below which a node is treated as pure.
const impurityTolerance = 1e-7

// TreeNode represents a node in the decision tree
type TreeNode struct {
	IsLeaf    bool      // Whether this is a leaf node
	Feature   int       // Feature index for split (internal nodes)
	Threshold float64   // Threshold value for split (internal nodes)
	Left      *TreeNode // Left child (values <= threshold)
	Right     *TreeNode // Right child (values > threshold)
	Value     float64   // Mean target of the samples at this node
	Impurity  float64   // Node impurity (variance of the target)
	NSamples  int       // Number of samples at this node
	Depth     int       // Depth of this node in the tree
}

// DecisionTreeRegressor implements a CART regression tree with the
// squared-error criterion. Leaves predict the mean target of their samples.
type DecisionTreeRegressor struct {
	state *model.StateManager // State management

	// Hyperparameters
	maxDepth            int     // Maximum depth of tree (0 = unlimited)
	minSamplesSplit     int     // Minimum samples to split a node
	minSamplesLeaf      int     // Minimum samples in a leaf
	maxFeatures         int     // Features examined per split (0 = all)
	minImpurityDecrease float64 // Minimum weighted impurity decrease for split
	randomState         uint64  // Seed for the per-node feature order

	// Tree structure
	tree_      *TreeNode // Root of the tree
	nFeatures_ int       // Number of features
	nSamples_  int       // Number of (possibly repeated) training samples

	// Feature importance
	featureImportances_ []float64 // Feature importance scores
}

// DecisionTreeRegressorOption is a functional option
type DecisionTreeRegressorOption func(*DecisionTreeRegressor)

// NewDecisionTreeRegressor creates a new decision tree regressor.
// The defaults grow the tree until every leaf is pure or holds one sample.
func NewDecisionTreeRegressor(opts ...DecisionTreeRegressorOption) *DecisionTreeRegressor {
	dt := &DecisionTreeRegressor{
		state:               model.NewStateManager(),
		maxDepth:            0, // Unlimited
		minSamplesSplit:     2,
		minSamplesLeaf:      1,
		maxFeatures:         0, // All features
		minImpurityDecrease: 0.0,
		randomState:         0,
	}

	for _, opt := range opts {
		opt(dt)
	}

	return dt
}

// Option functions

// WithMaxDepth sets the maximum tree depth
func WithMaxDepth(depth int) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets minimum samples to split
func WithMinSamplesSplit(n int) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets minimum samples in leaf
func WithMinSamplesLeaf(n int) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets how many features are examined per split (0 = all)
func WithMaxFeatures(n int) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.maxFeatures = n
	}
}

// WithMinImpurityDecrease sets the minimum impurity decrease for a split
func WithMinImpurityDecrease(v float64) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.minImpurityDecrease = v
	}
}

// WithDTRandomState sets the random seed
func WithDTRandomState(seed uint64) DecisionTreeRegressorOption {
	return func(dt *DecisionTreeRegressor) {
		dt.randomState = seed
	}
}

// Fit trains the tree on every row of X.
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.Fit")
	nSamples, _ := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("DecisionTreeRegressor.Fit", fmt.Sprintf("y must be a column vector: got shape (%d, %d)", yRows, yCols))
	}

	target := mat.Col(nil, 0, y)
	sample := make([]int, nSamples)
	for i := range sample {
		sample[i] = i
	}
	return dt.FitSample(X, target, sample)
}

// FitSample trains the tree on the rows of X listed in sample. Rows may
// repeat, which is how bootstrap replicates are expressed.
func (dt *DecisionTreeRegressor) FitSample(X mat.Matrix, y []float64, sample []int) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.FitSample")
	nRows, nFeatures := X.Dims()
	if nRows == 0 || nFeatures == 0 || len(sample) == 0 {
		return errors.NewModelError("DecisionTreeRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(y) != nRows {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", nRows, len(y), 0)
	}
	if dt.minSamplesSplit < 2 || dt.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_split/min_samples_leaf",
			"need min_samples_split >= 2 and min_samples_leaf >= 1",
			[2]int{dt.minSamplesSplit, dt.minSamplesLeaf})
	}

	dt.nFeatures_ = nFeatures
	dt.nSamples_ = len(sample)
	dt.featureImportances_ = make([]float64, nFeatures)

	b := &builder{
		dt:    dt,
		X:     mat.DenseCopyOf(X),
		y:     y,
		rng:   rand.New(rand.NewPCG(dt.randomState, dt.randomState^0x9e3779b97f4a7c15)),
		order: make([]int, nFeatures),
	}

	idx := append([]int(nil), sample...)
	dt.tree_ = b.build(idx, 0)

	dt.normalizeFeatureImportances()

	dt.state.SetFitted()
	dt.state.SetDimensions(nFeatures, len(sample))
	return nil
}

// builder holds the per-fit scratch state.
type builder struct {
	dt    *DecisionTreeRegressor
	X     *mat.Dense
	y     []float64
	rng   *rand.Rand
	order []int
}

// split describes a candidate split.
type split struct {
	feature   int
	threshold float64
	pos       int     // samples [0,pos) go left once sorted by feature
	decrease  float64 // weighted impurity decrease
}

// build recursively grows the subtree over idx
func (b *builder) build(idx []int, depth int) *TreeNode {
	n := len(idx)
	mean, impurity := b.meanVariance(idx)

	node := &TreeNode{
		Value:    mean,
		Impurity: impurity,
		NSamples: n,
		Depth:    depth,
	}

	if b.dt.shouldStop(n, impurity, depth) {
		node.IsLeaf = true
		return node
	}

	best, ok := b.findBestSplit(idx, impurity)
	if !ok || best.decrease < b.dt.minImpurityDecrease {
		node.IsLeaf = true
		return node
	}

	// Reorder idx so the left partition comes first.
	b.sortByFeature(idx, best.feature)

	node.Feature = best.feature
	node.Threshold = best.threshold

	// Update feature importance
	b.dt.featureImportances_[best.feature] += best.decrease * float64(n)

	left := append([]int(nil), idx[:best.pos]...)
	right := append([]int(nil), idx[best.pos:]...)
	node.Left = b.build(left, depth+1)
	node.Right = b.build(right, depth+1)

	return node
}

// shouldStop checks stopping criteria
func (dt *DecisionTreeRegressor) shouldStop(nSamples int, impurity float64, depth int) bool {
	if dt.maxDepth > 0 && depth >= dt.maxDepth {
		return true
	}

	if nSamples < dt.minSamplesSplit || nSamples < 2*dt.minSamplesLeaf {
		return true
	}

	return impurity <= impurityTolerance
}

func (b *builder) meanVariance(idx []int) (float64, float64) {
	var sum, sumSq float64
	for _, i := range idx {
		v := b.y[i]
		sum += v
		sumSq += v * v
	}
	n := float64(len(idx))
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, variance
}

func (b *builder) sortByFeature(idx []int, feature int) {
	sort.SliceStable(idx, func(i, j int) bool {
		return b.X.At(idx[i], feature) < b.X.At(idx[j], feature)
	})
}

// findBestSplit scans features in a random order and returns the split with
// the largest decrease of weighted variance.
func (b *builder) findBestSplit(idx []int, parentImpurity float64) (split, bool) {
	n := len(idx)
	nFeatures := len(b.order)
	for i := range b.order {
		b.order[i] = i
	}
	b.rng.Shuffle(nFeatures, func(i, j int) {
		b.order[i], b.order[j] = b.order[j], b.order[i]
	})

	maxFeatures := b.dt.maxFeatures
	if maxFeatures <= 0 || maxFeatures > nFeatures {
		maxFeatures = nFeatures
	}

	var total float64
	for _, i := range idx {
		total += b.y[i]
	}

	best := split{feature: -1}
	found := false
	sorted := make([]int, n)
	minLeaf := b.dt.minSamplesLeaf

	for _, feature := range b.order[:maxFeatures] {
		copy(sorted, idx)
		b.sortByFeature(sorted, feature)

		// Constant feature at this node
		if b.X.At(sorted[0], feature) == b.X.At(sorted[n-1], feature) {
			continue
		}

		var leftSum float64
		for pos := 1; pos < n; pos++ {
			leftSum += b.y[sorted[pos-1]]

			lo := b.X.At(sorted[pos-1], feature)
			hi := b.X.At(sorted[pos], feature)
			if lo == hi {
				continue
			}
			if pos < minLeaf || n-pos < minLeaf {
				continue
			}

			// Maximizing the between-group sum of squares is equivalent to
			// minimizing the children's weighted variance.
			nl, nr := float64(pos), float64(n-pos)
			rightSum := total - leftSum
			proxy := leftSum*leftSum/nl + rightSum*rightSum/nr

			nf := float64(n)
			decrease := proxy/nf - (total/nf)*(total/nf)
			if decrease > parentImpurity {
				decrease = parentImpurity
			}

			if !found || decrease > best.decrease {
				threshold := lo/2 + hi/2
				if threshold == hi {
					threshold = lo
				}
				best = split{feature: feature, threshold: threshold, pos: pos, decrease: decrease}
				found = true
			}
		}
	}

	return best, found && best.decrease > 0
}

// normalizeFeatureImportances normalizes feature importance scores
func (dt *DecisionTreeRegressor) normalizeFeatureImportances() {
	sum := 0.0
	for _, imp := range dt.featureImportances_ {
		sum += imp
	}

	if sum > 0 {
		for i := range dt.featureImportances_ {
			dt.featureImportances_[i] /= sum
		}
	}
}

// Predict returns an (n_samples, 1) matrix of predictions.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.Predict")
	if !dt.state.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != dt.nFeatures_ {
		return nil, errors.NewDimensionError("DecisionTreeRegressor.Predict", dt.nFeatures_, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		predictions.Set(i, 0, dt.predictRow(X, i))
	}

	return predictions, nil
}

// predictRow walks row i of X down to a leaf.
func (dt *DecisionTreeRegressor) predictRow(X mat.Matrix, i int) float64 {
	node := dt.tree_
	for !node.IsLeaf {
		if X.At(i, node.Feature) <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// IsFitted reports whether Fit has completed.
func (dt *DecisionTreeRegressor) IsFitted() bool {
	return dt.state.IsFitted()
}

// GetParams returns the model hyperparameters
func (dt *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":             "squared_error",
		"max_depth":             dt.maxDepth,
		"min_samples_split":     dt.minSamplesSplit,
		"min_samples_leaf":      dt.minSamplesLeaf,
		"max_features":          dt.maxFeatures,
		"min_impurity_decrease": dt.minImpurityDecrease,
		"random_state":          dt.randomState,
	}
}

// GetFeatureImportances returns a copy of the normalized impurity-decrease
// importances, or nil before Fit.
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	if dt.featureImportances_ == nil {
		return nil
	}

	importances := make([]float64, len(dt.featureImportances_))
	copy(importances, dt.featureImportances_)
	return importances
}

// GetDepth returns the depth of the tree
func (dt *DecisionTreeRegressor) GetDepth() int {
	if dt.tree_ == nil {
		return 0
	}
	return getMaxDepth(dt.tree_)
}

func getMaxDepth(node *TreeNode) int {
	if node.IsLeaf {
		return node.Depth
	}
	return int(math.Max(float64(getMaxDepth(node.Left)), float64(getMaxDepth(node.Right))))
}

// GetNLeaves returns the number of leaf nodes
func (dt *DecisionTreeRegressor) GetNLeaves() int {
	if dt.tree_ == nil {
		return 0
	}
	return countLeaves(dt.tree_)
}

func countLeaves(node *TreeNode) int {
	if node == nil {
		return 0
	}
	if node.IsLeaf {
		return 1
	}
	return countLeaves(node.Left) + countLeaves(node.Right)
}
