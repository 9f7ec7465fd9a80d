package preprocessing

import (
	"fmt"
	"sort"

	"github.com/ezoic/carprice/core/model"
	scigoErrors "github.com/ezoic/carprice/pkg/errors"
)

// LabelEncoder はscikit-learn互換のラベルエンコーダー
// 1列分の文字列値を 0..n_classes-1 の整数コードに変換する
//
// Codes are the positions of the values in the sorted set of distinct values
// seen by Fit, so they depend on which categories the fitting data contains.
type LabelEncoder struct {
	model.BaseEstimator

	// Classes はソート済みのユニークな値
	Classes []string

	classToCode map[string]int
}

// NewLabelEncoder は新しいLabelEncoderを作成する
//
// 使用例:
//
//	enc := preprocessing.NewLabelEncoder()
//	codes, err := enc.FitTransform([]string{"Petrol", "Diesel", "Petrol"})
//	// codes == [1, 0, 1]
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit は値の集合を学習する
func (e *LabelEncoder) Fit(values []string) (err error) {
	defer scigoErrors.Recover(&err, "LabelEncoder.Fit")
	if len(values) == 0 {
		return scigoErrors.NewModelError("LabelEncoder.Fit", "empty data", scigoErrors.ErrEmptyData)
	}

	seen := make(map[string]struct{})
	for _, v := range values {
		seen[v] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	e.Classes = classes
	e.classToCode = make(map[string]int, len(classes))
	for code, class := range classes {
		e.classToCode[class] = code
	}

	e.SetFitted()
	return nil
}

// Transform は値を整数コードに変換する
//
// 学習時に見ていない値はErrUnknownCategoryを返す
func (e *LabelEncoder) Transform(values []string) (_ []int, err error) {
	defer scigoErrors.Recover(&err, "LabelEncoder.Transform")
	if !e.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("LabelEncoder", "Transform")
	}

	codes := make([]int, len(values))
	for i, v := range values {
		code, ok := e.classToCode[v]
		if !ok {
			return nil, scigoErrors.NewModelError("LabelEncoder.Transform",
				fmt.Sprintf("y contains previously unseen label %q", v), scigoErrors.ErrUnknownCategory)
		}
		codes[i] = code
	}
	return codes, nil
}

// FitTransform は学習と変換を同時に行う
func (e *LabelEncoder) FitTransform(values []string) (_ []int, err error) {
	defer scigoErrors.Recover(&err, "LabelEncoder.FitTransform")
	if err := e.Fit(values); err != nil {
		return nil, err
	}
	return e.Transform(values)
}

// InverseTransform は整数コードを元の値に戻す
func (e *LabelEncoder) InverseTransform(codes []int) (_ []string, err error) {
	defer scigoErrors.Recover(&err, "LabelEncoder.InverseTransform")
	if !e.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}

	values := make([]string, len(codes))
	for i, code := range codes {
		if code < 0 || code >= len(e.Classes) {
			return nil, scigoErrors.NewModelError("LabelEncoder.InverseTransform",
				fmt.Sprintf("code %d outside [0, %d)", code, len(e.Classes)), scigoErrors.ErrUnknownCategory)
		}
		values[i] = e.Classes[code]
	}
	return values, nil
}

// Code returns the code of a single value.
func (e *LabelEncoder) Code(value string) (int, error) {
	codes, err := e.Transform([]string{value})
	if err != nil {
		return 0, err
	}
	return codes[0], nil
}

// NClasses returns the number of distinct values learned by Fit.
func (e *LabelEncoder) NClasses() int {
	return len(e.Classes)
}

func (e *LabelEncoder) String() string {
	if !e.IsFitted() {
		return "LabelEncoder()"
	}
	return fmt.Sprintf("LabelEncoder(classes=%v)", e.Classes)
}
