// Package errors defines the error taxonomy shared by every estimator and
// pipeline stage.
//
// It wraps github.com/cockroachdb/errors so that errors carry stack traces
// (print them with "%+v") while remaining compatible with the standard
// errors.Is / errors.As helpers.
//
// Typed errors:
//
//   - DimensionError: a matrix or vector has the wrong shape
//   - NotFittedError: an estimator was used before Fit
//   - ValueError: an argument has an invalid value
//   - ModelError: an operation failed, wrapping a sentinel cause
//   - ValidationError: a configuration parameter is out of range
//
// Sentinels such as ErrEmptyData and ErrMissingColumn are meant to be wrapped
// by ModelError and matched with errors.Is.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors.
var (
	ErrNotImplemented    = errors.New("not implemented")
	ErrEmptyData         = errors.New("empty data")
	ErrSingularMatrix    = errors.New("singular matrix")
	ErrNotFitted         = errors.New("model not fitted")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingColumn     = errors.New("missing column")
	ErrUnknownCategory   = errors.New("unknown category")
)

// Re-exported helpers so callers need a single errors import.
var (
	New       = errors.New
	Newf      = errors.Newf
	Wrap      = errors.Wrap
	Wrapf     = errors.Wrapf
	WithStack = errors.WithStack
	Is        = errors.Is
	As        = errors.As
	Unwrap    = errors.Unwrap
)

// DimensionError reports a shape mismatch.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	// Axis is 0 for rows and 1 for columns.
	Axis int
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("goml: %s: dimension mismatch on %s: expected %d, got %d", e.Op, axis, e.Expected, e.Got)
}

// Is lets errors.Is(err, ErrDimensionMismatch) match any DimensionError.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// NotFittedError reports use of an estimator before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("goml: %s: this instance is not fitted yet; call Fit before %s", e.ModelName, e.Method)
}

// Is lets errors.Is(err, ErrNotFitted) match any NotFittedError.
func (e *NotFittedError) Is(target error) bool {
	return target == ErrNotFitted
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("goml: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError wraps a cause with the failing operation.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("goml: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("goml: %s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError wrapping err.
func NewModelError(op, message string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Message: message, Err: err})
}

// ValidationError reports a rejected parameter.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("goml: invalid %s: %s (got %v)", e.ParamName, e.Reason, e.Value)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError.
func NewValidationError(paramName, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: paramName, Reason: reason, Value: value})
}

// Recover converts a panic into an error assigned to *err.
// Use it as the first deferred call of an exported method:
//
//	func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
//		defer errors.Recover(&err, "StandardScaler.Fit")
//		...
//	}
func Recover(err *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	var cause error
	switch v := r.(type) {
	case error:
		cause = v
	default:
		cause = errors.Newf("%v", v)
	}
	*err = errors.Wrapf(cause, "goml: %s: panic recovered", op)
}
