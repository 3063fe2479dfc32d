// Package seri serializes strongly-typed Go values to JSON text using
// per-type descriptors constructed at program initialization, with no
// reflection on the serialization path.
//
// # Overview
//
// Every serializable type is bound to a Codec, built once from a closed set
// of combinators. The combinator chosen for a type fixes its serialization
// category; a type with no matching combinator cannot be given a Codec, so
// "type is not serializable" is a compile error, not a runtime one.
//
//	Category      Combinator            Output
//	────────────────────────────────────────────────────────────
//	boolean       Bool                  true / false
//	integral      Int, Uint             decimal text
//	floating      Float                 shortest round-trip decimal
//	string        String                quoted, escaped
//	enumeration   Enum                  label string, integer fallback
//	map           Map                   object (string keys only)
//	sequence      List                  array
//	optional      Option                null or the inner value
//	error-union   ResultOf              {"state":…, "value"/"error":…}
//	tagged union  Variant               {"index":…,"value":…}
//	aggregate     Object                object of flattened fields
//
// When a Go type could satisfy more than one category (a named string that
// is also a sequence of bytes, an integer type that is also an enum), the
// more specific combinator wins: boolean before integral, integral before
// floating, string before sequence, enumeration before plain integral, map
// before generic sequence.
//
// # Aggregates
//
// Aggregate types register a TypeDescriptor listing embedded base components
// and own fields, both in declaration order:
//
//	var addressDesc = seri.Describe(
//	    seri.Bases[Address](),
//	    seri.Fields(
//	        seri.Field("street", seri.String[string](), func(a *Address) string { return a.Street }),
//	        seri.Field("number", seri.Int[int](), func(a *Address) int { return a.Number }),
//	    ),
//	)
//
//	var employeeDesc = seri.Describe(
//	    seri.Bases(
//	        seri.Base(namedDesc, func(e *Employee) *Named { return &e.Named }),
//	    ),
//	    seri.Fields(
//	        seri.Field("id", seri.Int[int](), func(e *Employee) int { return e.ID }),
//	        seri.Field("address", seri.Object(addressDesc), func(e *Employee) Address { return e.Address }),
//	    ),
//	)
//
//	out, err := seri.Marshal(seri.Object(employeeDesc), alice)
//
// Base fields are flattened ahead of own fields, pre-order, into a single
// object body. A Base can only reference an already-built descriptor, which
// keeps composition trees acyclic by construction.
//
// # Output
//
// UTF-8 JSON text with no inserted whitespace and no trailing newline.
// Escaping covers backslash, double quote, newline, carriage return and tab
// with their two-character escapes; any other control byte below 0x20 is
// written as a \u00XX numeric escape. Map keys are emitted in ascending
// order so equal values always produce identical bytes.
//
// # Concurrency
//
// Descriptors and codecs are immutable after construction and safe for
// concurrent use. A Writer belongs to exactly one serialization call.
//
// # Errors
//
// Structural problems are unrepresentable. The remaining runtime failures
// (a non-finite float, a tagged union with no active alternative) surface as
// structured errors from the errors package, carrying the path to the
// offending value:
//
//	[encode] non_finite at address.latitude: +Inf has no JSON representation
//
// A failure aborts the whole serialization call; the engine retries nothing.
//
// The harvest package can derive the same codec shapes from struct tags via
// reflection, as an alternative descriptor producer for types whose layout
// already matches their JSON form. Explicit descriptors stay canonical.
package seri
