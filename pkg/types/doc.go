// Package types defines the data model for the argbind binding engine:
// the Type Descriptor variants, Parameter signatures, the Command tree,
// the Binding result, the Overlay contract, and the error taxonomy.
// Everything here is pure data plus registration-time validation; the
// engine in internal/engine consumes it without mutating it.
package types
