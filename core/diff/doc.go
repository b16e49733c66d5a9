// Package diff computes structural deltas between two documents.
//
// Documents are untyped key-value records as decoded from JSON
// (map[string]any). The recursive comparison is delegated to the r3labs
// differ, which handles nested maps, slices and scalar values; this package
// classifies its changelog into added, removed, changed and type_changed
// entries, and suppresses entries under configured exclusion paths.
//
// Exclusion paths identify sub-fields to ignore during comparison, such as
// timestamps or generated identifiers. Both a dotted form
// (metadata.updated_at) and a bracket form (root['metadata']['updated_at'])
// are accepted.
package diff
