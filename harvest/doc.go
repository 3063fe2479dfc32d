// Package harvest derives seri codecs from Go type structure via
// reflection.
//
// It is an alternative producer of the same codec shape the explicit
// combinators build: For compiles a reflect.Type once into an encoder tree
// and caches it, so the reflection cost is paid per type, not per value.
// Explicit descriptors remain the canonical path; harvest suits types whose
// Go layout already matches their JSON form.
//
// Classification precedence mirrors the combinator table: bool, registered
// enumeration, signed and unsigned integers, floats, string, string-keyed
// map, slice or array, pointer (optional), struct (aggregate). Anonymous
// embedded structs flatten as base components ahead of the owner's own
// fields. Field names come from the `seri:"…"` tag when present, otherwise
// from the snake_cased Go field name; a `seri:"-"` tag skips the field.
//
// A type outside these categories (chan, func, complex, interface) fails
// compilation with a structured "type is not serializable" error.
package harvest
