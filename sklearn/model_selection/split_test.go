package model_selection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/pkg/errors"
)

func sequentialData(n int) (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(10*i))
		y.SetVec(i, float64(100*i))
	}
	return X, y
}

func TestTrainTestIndices_PartitionSizes(t *testing.T) {
	tests := []struct {
		n         int
		testSize  float64
		wantTest  int
		wantTrain int
	}{
		{301, 0.2, 61, 240},
		{100, 0.2, 20, 80},
		{10, 0.25, 3, 7},
		{2, 0.5, 1, 1},
	}
	for _, tt := range tests {
		train, test, err := TrainTestIndices(tt.n, tt.testSize, 42)
		require.NoError(t, err)
		assert.Len(t, test, tt.wantTest)
		assert.Len(t, train, tt.wantTrain)
	}
}

func TestTrainTestIndices_DisjointAndComplete(t *testing.T) {
	train, test, err := TrainTestIndices(301, 0.2, 42)
	require.NoError(t, err)

	all := append(append([]int(nil), train...), test...)
	sort.Ints(all)
	for i, v := range all {
		require.Equal(t, i, v)
	}
}

func TestTrainTestIndices_Deterministic(t *testing.T) {
	train1, test1, err := TrainTestIndices(301, 0.2, 42)
	require.NoError(t, err)
	train2, test2, err := TrainTestIndices(301, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	_, test3, err := TrainTestIndices(301, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, test1, test3)
}

func TestTrainTestIndices_Invalid(t *testing.T) {
	for _, ts := range []float64{0, 1, -0.2, 1.5} {
		_, _, err := TrainTestIndices(10, ts, 42)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	}

	_, _, err := TrainTestIndices(1, 0.2, 42)
	assert.Error(t, err)
}

func TestTrainTestSplit_RowsStayAligned(t *testing.T) {
	X, y := sequentialData(50)

	split, err := TrainTestSplit(X, y, 0.2, 42)
	require.NoError(t, err)

	rTrain, cTrain := split.XTrain.Dims()
	rTest, _ := split.XTest.Dims()
	assert.Equal(t, 40, rTrain)
	assert.Equal(t, 2, cTrain)
	assert.Equal(t, 10, rTest)

	for i, src := range split.TestIndex {
		assert.Equal(t, float64(src), split.XTest.At(i, 0))
		assert.Equal(t, float64(100*src), split.YTest.AtVec(i))
	}
	for i, src := range split.TrainIndex {
		assert.Equal(t, float64(10*src), split.XTrain.At(i, 1))
		assert.Equal(t, float64(100*src), split.YTrain.AtVec(i))
	}
}

func TestTrainTestSplit_Errors(t *testing.T) {
	X, _ := sequentialData(5)

	_, err := TrainTestSplit(X, mat.NewVecDense(4, nil), 0.2, 42)
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)

	_, err = TrainTestSplit(&mat.Dense{}, nil, 0.2, 42)
	assert.ErrorIs(t, err, errors.ErrEmptyData)
}
