// Package errors provides structured error types for the seri module.
//
// Errors carry a processing phase (compile, encode, config, store,
// transport), a machine-readable kind, the path to the offending value, and
// an optional cause. The string form is stable and greppable:
//
//	[encode] non_finite at address.latitude: +Inf has no JSON representation
//	[compile] invalid_key at ratings: Go type map[int]string - JSON object keys must be string-like
//
// Use the Builder for one-off construction, or the convenience constructors
// for common shapes. Prefix accumulates the value path as an error unwinds
// out of nested containers and aggregate fields.
package errors
