// Package transform describes the functions applied by pipeline processes.
//
// A transform is identified by a stable name and an optional definition (its
// serialized parameters). Two transforms are the same when their fingerprints,
// a BLAKE3 digest of name and definition, are equal. The Go function itself is
// never compared or persisted: a Catalog rebuilds it from name and definition
// when a saved tracker is loaded.
package transform
