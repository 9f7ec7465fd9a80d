// Package model_selection provides data partitioning utilities compatible
// with scikit-learn's sklearn.model_selection.
package model_selection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/pkg/errors"
)

// Split is the result of TrainTestSplit. TrainIndex and TestIndex are row
// indices into the input and together cover every row exactly once.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.VecDense

	TrainIndex []int
	TestIndex  []int
}

// ShuffleIndices returns a permutation of [0, n) determined only by n and seed.
func ShuffleIndices(n int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed))
	return rng.Perm(n)
}

// TrainTestIndices partitions [0, n) into train and test index sets.
//
// The test set holds ceil(n*testSize) rows, as scikit-learn does. The
// partition depends only on n, testSize and seed.
func TrainTestIndices(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", testSize)
	}

	nTest := int(math.Ceil(float64(n) * testSize))
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return nil, nil, errors.NewValueError("TrainTestSplit",
			"with the given test_size the train or test set would be empty")
	}

	perm := ShuffleIndices(n, seed)
	return perm[nTest:], perm[:nTest], nil
}

// TrainTestSplit splits X and y into random train and test subsets.
//
// Example:
//
//	split, err := model_selection.TrainTestSplit(X, y, 0.2, 42)
//	if err != nil {
//	    return err
//	}
//	err = forest.Fit(split.XTrain, split.YTrain)
func TrainTestSplit(X mat.Matrix, y *mat.VecDense, testSize float64, seed uint64) (*Split, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}
	if y == nil || y.Len() != r {
		got := 0
		if y != nil {
			got = y.Len()
		}
		return nil, errors.NewDimensionError("TrainTestSplit", r, got, 0)
	}

	train, test, err := TrainTestIndices(r, testSize, seed)
	if err != nil {
		return nil, err
	}

	s := &Split{TrainIndex: train, TestIndex: test}
	s.XTrain, s.YTrain = takeRows(X, y, train)
	s.XTest, s.YTest = takeRows(X, y, test)
	return s, nil
}

func takeRows(X mat.Matrix, y *mat.VecDense, idx []int) (*mat.Dense, *mat.VecDense) {
	_, c := X.Dims()
	xs := mat.NewDense(len(idx), c, nil)
	ys := mat.NewVecDense(len(idx), nil)
	row := make([]float64, c)
	for i, src := range idx {
		mat.Row(row, src, X)
		xs.SetRow(i, row)
		ys.SetVec(i, y.AtVec(src))
	}
	return xs, ys
}
