package store

import (
	"iter"
	"slices"

	"github.com/mesh-intelligence/boxdata/pkg/types"
)

// Table stores rows under caller-supplied keys against a single schema.
// Every row holds exactly one value per schema field, in schema order; schema
// edits rewrite all rows before returning.
//
// The table reacts to explicit row creation and deletion only. It does not
// track which keys are in use.
type Table[K comparable] struct {
	fields []types.Field
	rows   map[K]Row
}

// NewTable returns an empty table with no fields.
func NewTable[K comparable]() *Table[K] {
	return &Table[K]{rows: make(map[K]Row)}
}

// CreateRow inserts a row for key holding each field's default value,
// replacing any row already stored under key.
func (t *Table[K]) CreateRow(key K) Row {
	row := t.rows[key][:0]
	for _, f := range t.fields {
		row = append(row, f.Default())
	}
	t.rows[key] = row
	return row
}

// Get returns the row stored under key.
func (t *Table[K]) Get(key K) (Row, bool) {
	row, ok := t.rows[key]
	return row, ok
}

// DeleteRow removes the row stored under key and reports whether one existed.
func (t *Table[K]) DeleteRow(key K) bool {
	if _, ok := t.rows[key]; !ok {
		return false
	}
	delete(t.rows, key)
	return true
}

// Len returns the number of rows.
func (t *Table[K]) Len() int { return len(t.rows) }

// All yields every key and row in unspecified order.
func (t *Table[K]) All() iter.Seq2[K, Row] {
	return func(yield func(K, Row) bool) {
		for k, row := range t.rows {
			if !yield(k, row) {
				return
			}
		}
	}
}

// Schema returns the fields in order. The slice must not be modified.
func (t *Table[K]) Schema() []types.Field { return t.fields }

// HasField reports whether a field with exactly this name exists.
func (t *Table[K]) HasField(name string) bool {
	return t.fieldIndex(name) >= 0
}

func (t *Table[K]) fieldIndex(name string) int {
	return slices.IndexFunc(t.fields, func(f types.Field) bool { return f.Name == name })
}

// AddField appends a field and appends its default value to every row.
// Names are not checked for uniqueness; use HasField first.
func (t *Table[K]) AddField(name string, dt types.DataType) {
	f := types.NewField(name, dt)
	t.fields = append(t.fields, f)
	for k, row := range t.rows {
		t.rows[k] = append(row, f.Default())
	}
}

// RemoveFieldNamed removes the first field called name along with its value
// in every row. Unknown names are ignored.
func (t *Table[K]) RemoveFieldNamed(name string) {
	t.RemoveField(t.fieldIndex(name))
}

// RemoveField removes the field at index i along with its value in every
// row. Out-of-range indices are ignored.
func (t *Table[K]) RemoveField(i int) {
	if i < 0 || i >= len(t.fields) {
		return
	}
	t.fields = slices.Delete(t.fields, i, i+1)
	for k, row := range t.rows {
		t.rows[k] = slices.Delete(row, i, i+1)
	}
}

// MoveFieldUp swaps field i with its predecessor, reordering every row the
// same way. No-op for the first field or an out-of-range index.
func (t *Table[K]) MoveFieldUp(i int) {
	t.swapFields(i-1, i)
}

// MoveFieldDown swaps field i with its successor. No-op for the last field or
// an out-of-range index.
func (t *Table[K]) MoveFieldDown(i int) {
	t.swapFields(i, i+1)
}

func (t *Table[K]) swapFields(i, j int) {
	if i < 0 || j >= len(t.fields) {
		return
	}
	t.fields[i], t.fields[j] = t.fields[j], t.fields[i]
	for _, row := range t.rows {
		row[i], row[j] = row[j], row[i]
	}
}
