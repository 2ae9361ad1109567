package types

import "fmt"

// Field describes one column of a table schema: a name and the type of the
// values stored under it. Fields are immutable once created.
type Field struct {
	Name string
	Type DataType
}

// NewField returns a Field with the given name and type.
func NewField(name string, t DataType) Field {
	return Field{Name: name, Type: t}
}

// Default returns the default value for the field's type.
func (f Field) Default() Value {
	return DefaultValue(f.Type)
}

func (f Field) String() string {
	return fmt.Sprintf("%s: %s", f.Name, f.Type)
}
