package store

import (
	"maps"
	"slices"

	"github.com/mesh-intelligence/boxdata/pkg/types"
)

// Registry owns a set of tables indexed by unique name.
type Registry[K comparable] struct {
	tables map[string]*Table[K]
}

// NewRegistry returns an empty registry.
func NewRegistry[K comparable]() *Registry[K] {
	return &Registry[K]{tables: make(map[string]*Table[K])}
}

// Register creates an empty table under name, replacing any existing table
// of that name together with its rows.
func (r *Registry[K]) Register(name string) *Table[K] {
	t := NewTable[K]()
	r.tables[name] = t
	return t
}

// Table returns the table registered under name.
func (r *Registry[K]) Table(name string) (*Table[K], bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Has reports whether a table is registered under name.
func (r *Registry[K]) Has(name string) bool {
	_, ok := r.tables[name]
	return ok
}

// Names returns the registered table names in sorted order.
func (r *Registry[K]) Names() []string {
	return slices.Sorted(maps.Keys(r.tables))
}

// Row looks up key in the named table. A missing table and a missing key
// are reported the same way.
func (r *Registry[K]) Row(name string, key K) (Row, bool) {
	t, ok := r.tables[name]
	if !ok {
		return nil, false
	}
	return t.Get(key)
}

// RowWithSchema is Row plus the table's schema, for callers that render a
// row generically.
func (r *Registry[K]) RowWithSchema(name string, key K) ([]types.Field, Row, bool) {
	t, ok := r.tables[name]
	if !ok {
		return nil, nil, false
	}
	row, ok := t.Get(key)
	if !ok {
		return nil, nil, false
	}
	return t.Schema(), row, true
}
