package types

import (
	"errors"
	"fmt"
)

// Value and schema errors.
var (
	ErrParse           = errors.New("invalid literal for data type")
	ErrUnknownDataType = errors.New("unknown data type")
	ErrInvalidName     = errors.New("invalid name")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrTableNotFound   = errors.New("table not found")
)

// Config validation errors.
var (
	ErrInvalidFPS      = errors.New("fps must be positive")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

var (
	errCharLength  = errors.New("expected exactly one character")
	errBoolLiteral = errors.New(`expected "true" or "false"`)
)

// ParseError reports text that is not a valid literal for a value's type.
// errors.Is(err, ErrParse) holds for every ParseError.
type ParseError struct {
	Type DataType
	Text string
	Err  error
}

func newParseError(t DataType, text string, err error) *ParseError {
	return &ParseError{Type: t, Text: text, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q as %s: %v", e.Text, e.Type, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse so callers need not type-assert.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
