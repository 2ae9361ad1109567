// Package store holds schema-driven records in memory: keyed tables whose
// rows stay index-aligned with a mutable schema, a registry of tables by
// name, and a key allocator that recycles small integer keys.
//
// Nothing in this package is safe for concurrent use. Callers own a table or
// registry exclusively while mutating it.
package store
