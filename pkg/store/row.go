package store

import "github.com/mesh-intelligence/boxdata/pkg/types"

// Row is a live view of one record: one value per schema field, in schema
// order. Writing through a Row updates the table.
type Row []types.Value

// SetText assigns text to the value at index i using the value's own type.
// An out-of-range index is a no-op.
func (r Row) SetText(i int, text string) error {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i].SetText(text)
}

// Strings renders every value in display form.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.String()
	}
	return out
}

// Clone returns a detached copy of the row.
func (r Row) Clone() Row {
	return append(Row(nil), r...)
}
