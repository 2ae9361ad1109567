package types

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DataType tags the variant held by a Value.
type DataType uint8

// Data types a field may declare.
const (
	TypeF32 DataType = iota
	TypeI32
	TypeU32
	TypeChar
	TypeBool
	TypeString
)

// DataTypes lists every data type in menu order.
var DataTypes = []DataType{TypeF32, TypeI32, TypeU32, TypeChar, TypeBool, TypeString}

var dataTypeNames = [...]string{
	TypeF32:    "F32",
	TypeI32:    "I32",
	TypeU32:    "U32",
	TypeChar:   "Char",
	TypeBool:   "Bool",
	TypeString: "String",
}

// String returns the display name of the data type (F32, I32, ...).
func (t DataType) String() string {
	if t.Valid() {
		return dataTypeNames[t]
	}
	return "DataType(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is one of the declared data types.
func (t DataType) Valid() bool {
	return int(t) < len(dataTypeNames)
}

// ParseDataType maps a display name to its DataType. Matching is
// case-insensitive. Returns ErrUnknownDataType if nothing matches.
func ParseDataType(name string) (DataType, error) {
	for i, n := range dataTypeNames {
		if strings.EqualFold(n, name) {
			return DataType(i), nil
		}
	}
	return 0, ErrUnknownDataType
}

// Value is a typed field value. The tag is fixed at construction; only the
// payload changes afterwards.
type Value struct {
	typ DataType
	f   float32
	i   int32
	u   uint32
	c   rune
	b   bool
	s   string
}

// DefaultValue returns the zero value of the given type: 0 for the numeric
// types, NUL for Char, false for Bool, and "" for String.
func DefaultValue(t DataType) Value {
	return Value{typ: t}
}

// NewF32 returns an F32 value.
func NewF32(v float32) Value { return Value{typ: TypeF32, f: v} }

// NewI32 returns an I32 value.
func NewI32(v int32) Value { return Value{typ: TypeI32, i: v} }

// NewU32 returns a U32 value.
func NewU32(v uint32) Value { return Value{typ: TypeU32, u: v} }

// NewChar returns a Char value.
func NewChar(v rune) Value { return Value{typ: TypeChar, c: v} }

// NewBool returns a Bool value.
func NewBool(v bool) Value { return Value{typ: TypeBool, b: v} }

// NewString returns a String value.
func NewString(v string) Value { return Value{typ: TypeString, s: v} }

// Type returns the value's tag.
func (v Value) Type() DataType { return v.typ }

// Typed accessors return the payload and whether the tag matches.

func (v Value) F32() (float32, bool) { return v.f, v.typ == TypeF32 }
func (v Value) I32() (int32, bool) { return v.i, v.typ == TypeI32 }
func (v Value) U32() (uint32, bool) { return v.u, v.typ == TypeU32 }
func (v Value) Char() (rune, bool) { return v.c, v.typ == TypeChar }
func (v Value) Bool() (bool, bool) { return v.b, v.typ == TypeBool }
func (v Value) Str() (string, bool) { return v.s, v.typ == TypeString }

// SetText parses text according to the value's tag and replaces the payload.
// On failure a *ParseError is returned and the payload is left unchanged.
//
// Numeric tags use base-10 parsing, Char needs exactly one rune, Bool accepts
// only "true" or "false", and String copies text verbatim.
func (v *Value) SetText(text string) error {
	switch v.typ {
	case TypeF32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return newParseError(v.typ, text, err)
		}
		v.f = float32(f)
	case TypeI32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return newParseError(v.typ, text, err)
		}
		v.i = int32(n)
	case TypeU32:
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return newParseError(v.typ, text, err)
		}
		v.u = uint32(n)
	case TypeChar:
		if utf8.RuneCountInString(text) != 1 {
			return newParseError(v.typ, text, errCharLength)
		}
		r, _ := utf8.DecodeRuneInString(text)
		v.c = r
	case TypeBool:
		switch text {
		case "true":
			v.b = true
		case "false":
			v.b = false
		default:
			return newParseError(v.typ, text, errBoolLiteral)
		}
	case TypeString:
		v.s = text
	default:
		return newParseError(v.typ, text, ErrUnknownDataType)
	}
	return nil
}

// String renders the payload in its natural textual form. F32 uses the
// shortest decimal representation, so 1.0 renders as "1".
func (v Value) String() string {
	switch v.typ {
	case TypeF32:
		return strconv.FormatFloat(float64(v.f), 'f', -1, 32)
	case TypeI32:
		return strconv.FormatInt(int64(v.i), 10)
	case TypeU32:
		return strconv.FormatUint(uint64(v.u), 10)
	case TypeChar:
		return string(v.c)
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeString:
		return v.s
	default:
		return ""
	}
}
