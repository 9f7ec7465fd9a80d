package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprice/pkg/errors"
	"github.com/ezoic/carprice/pkg/log"
	"github.com/ezoic/carprice/preprocessing"
)

// FeatureNames is the column order of the feature matrix.
var FeatureNames = []string{
	ColYear, ColPresentPrice, ColDrivenKms, ColFuelType,
	ColSellingType, ColTransmission, ColOwner,
}

// CategoricalColumns are label-encoded before training.
var CategoricalColumns = []string{ColFuelType, ColSellingType, ColTransmission}

// Encoders holds the LabelEncoder fitted for each categorical column.
type Encoders map[string]*preprocessing.LabelEncoder

func (e Encoders) encoder(column string) (*preprocessing.LabelEncoder, error) {
	enc, ok := e[column]
	if !ok {
		return nil, errors.NewModelError("Encoders", fmt.Sprintf("no encoder for column %q", column), errors.ErrMissingColumn)
	}
	return enc, nil
}

// Encode returns the code of value in column.
func (e Encoders) Encode(column, value string) (int, error) {
	enc, err := e.encoder(column)
	if err != nil {
		return 0, err
	}
	return enc.Code(value)
}

// Decode returns the original value for code in column.
func (e Encoders) Decode(column string, code int) (string, error) {
	enc, err := e.encoder(column)
	if err != nil {
		return "", err
	}
	values, err := enc.InverseTransform([]int{code})
	if err != nil {
		return "", err
	}
	return values[0], nil
}

// Encoded is the numeric form of the listings.
type Encoded struct {
	// X is n×7 in FeatureNames order.
	X *mat.Dense
	// Y holds Selling_Price.
	Y *mat.VecDense

	Encoders     Encoders
	FeatureNames []string
}

// Encode fits one LabelEncoder per categorical column on listings and builds
// the feature matrix and target vector.
//
// Codes depend on the categories present in listings: a dataset without
// "CNG" encodes "Diesel" as 0 instead of 1.
func Encode(listings []Listing) (*Encoded, error) {
	n := len(listings)
	if n == 0 {
		return nil, errors.NewModelError("dataset.Encode", "no rows left to encode", errors.ErrEmptyData)
	}

	raw := map[string][]string{
		ColFuelType:     make([]string, n),
		ColSellingType:  make([]string, n),
		ColTransmission: make([]string, n),
	}
	for i, l := range listings {
		raw[ColFuelType][i] = l.FuelType
		raw[ColSellingType][i] = l.SellingType
		raw[ColTransmission][i] = l.Transmission
	}

	logger := log.GetLoggerWithName("dataset")
	encoders := make(Encoders, len(CategoricalColumns))
	codes := make(map[string][]int, len(CategoricalColumns))
	for _, col := range CategoricalColumns {
		enc := preprocessing.NewLabelEncoder()
		c, err := enc.FitTransform(raw[col])
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", col)
		}
		encoders[col] = enc
		codes[col] = c
		logger.Debug("Column encoded",
			log.PhaseKey, log.PhasePreprocessing,
			"column", col,
			"classes", enc.Classes,
		)
	}

	X := mat.NewDense(n, len(FeatureNames), nil)
	y := mat.NewVecDense(n, nil)
	for i, l := range listings {
		X.SetRow(i, []float64{
			float64(l.Year),
			l.PresentPrice,
			float64(l.DrivenKms),
			float64(codes[ColFuelType][i]),
			float64(codes[ColSellingType][i]),
			float64(codes[ColTransmission][i]),
			float64(l.Owner),
		})
		y.SetVec(i, l.SellingPrice)
	}

	return &Encoded{
		X:            X,
		Y:            y,
		Encoders:     encoders,
		FeatureNames: append([]string(nil), FeatureNames...),
	}, nil
}

// NumericColumns returns the encoded features and the target as column
// slices for correlation analysis, in the order the names appear in order
// (normally Table.Names, i.e. file order). Names that are not numeric after
// encoding, such as Car_Name, are skipped. A nil order yields the features
// followed by the target.
func (e *Encoded) NumericColumns(order []string) ([]string, [][]float64) {
	index := make(map[string]int, len(e.FeatureNames))
	for j, name := range e.FeatureNames {
		index[name] = j
	}
	if order == nil {
		order = append(append([]string(nil), e.FeatureNames...), ColSellingPrice)
	}

	names := make([]string, 0, len(e.FeatureNames)+1)
	cols := make([][]float64, 0, len(e.FeatureNames)+1)
	for _, name := range order {
		if name == ColSellingPrice {
			names = append(names, name)
			cols = append(cols, mat.Col(nil, 0, e.Y))
			continue
		}
		if j, ok := index[name]; ok {
			names = append(names, name)
			cols = append(cols, mat.Col(nil, j, e.X))
		}
	}
	return names, cols
}
