package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/carprice/preprocessing"
	scigoErrors "github.com/ezoic/carprice/pkg/errors"
)

func TestLabelEncoder_Fit(t *testing.T) {
	enc := preprocessing.NewLabelEncoder()
	require.NoError(t, enc.Fit([]string{"Petrol", "Diesel", "Petrol", "CNG", "Diesel"}))

	assert.True(t, enc.IsFitted())
	assert.Equal(t, []string{"CNG", "Diesel", "Petrol"}, enc.Classes)
	assert.Equal(t, 3, enc.NClasses())
}

func TestLabelEncoder_Transform(t *testing.T) {
	tests := []struct {
		name   string
		fit    []string
		values []string
		want   []int
	}{
		{
			name:   "fuel type",
			fit:    []string{"Petrol", "Diesel", "CNG"},
			values: []string{"Diesel", "Petrol", "CNG", "Petrol"},
			want:   []int{1, 2, 0, 2},
		},
		{
			name:   "seller type",
			fit:    []string{"Individual", "Dealer"},
			values: []string{"Dealer", "Individual"},
			want:   []int{0, 1},
		},
		{
			name:   "transmission",
			fit:    []string{"Manual", "Automatic", "Manual"},
			values: []string{"Manual"},
			want:   []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := preprocessing.NewLabelEncoder()
			require.NoError(t, enc.Fit(tt.fit))
			got, err := enc.Transform(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelEncoder_RoundTrip(t *testing.T) {
	values := []string{"Petrol", "Diesel", "Petrol", "CNG", "Diesel", "Petrol"}

	enc := preprocessing.NewLabelEncoder()
	codes, err := enc.FitTransform(values)
	require.NoError(t, err)

	decoded, err := enc.InverseTransform(codes)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

func TestLabelEncoder_UnseenValues(t *testing.T) {
	enc := preprocessing.NewLabelEncoder()
	require.NoError(t, enc.Fit([]string{"Petrol", "Diesel"}))

	_, err := enc.Transform([]string{"Electric"})
	assert.ErrorIs(t, err, scigoErrors.ErrUnknownCategory)

	_, err = enc.Code("CNG")
	assert.ErrorIs(t, err, scigoErrors.ErrUnknownCategory)

	_, err = enc.InverseTransform([]int{2})
	assert.ErrorIs(t, err, scigoErrors.ErrUnknownCategory)

	_, err = enc.InverseTransform([]int{-1})
	assert.ErrorIs(t, err, scigoErrors.ErrUnknownCategory)
}

func TestLabelEncoder_CodesDependOnObservedCategories(t *testing.T) {
	full := preprocessing.NewLabelEncoder()
	require.NoError(t, full.Fit([]string{"CNG", "Diesel", "Petrol"}))
	partial := preprocessing.NewLabelEncoder()
	require.NoError(t, partial.Fit([]string{"Diesel", "Petrol"}))

	a, err := full.Code("Petrol")
	require.NoError(t, err)
	b, err := partial.Code("Petrol")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "codes are only consistent across identical category sets")
}

func TestLabelEncoder_Errors(t *testing.T) {
	enc := preprocessing.NewLabelEncoder()

	_, err := enc.Transform([]string{"Petrol"})
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)

	_, err = enc.InverseTransform([]int{0})
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)

	assert.ErrorIs(t, enc.Fit(nil), scigoErrors.ErrEmptyData)
	assert.Equal(t, "LabelEncoder()", enc.String())
}
