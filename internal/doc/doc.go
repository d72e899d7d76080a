// Package doc provides the generic document value used for filters,
// projections, sort specs and pipeline stages.
//
// A Document is an ordered mapping: keys are unique and insertion order is
// preserved. Order is significant for rendering and for sort specs, where it
// decides the tie-break order of fields.
//
// Key design constraints:
//   - Value is sealed - only the types in this package implement it
//   - Null is an explicit value, never a nil interface
//   - Documents never share storage after Clone
package doc
