// Package types defines the value and schema vocabulary shared by the
// boxdata store: typed values and their data types, field descriptors,
// the geometry carried by hitboxes, session configuration, and the standard
// errors.
package types
