// Package persist saves and restores tracker state.
//
// A state is encoded as deterministic CBOR, compressed, prefixed with a small
// header (magic, format version, compression type and a BLAKE3 checksum of
// the uncompressed payload) and handed to a Backend under a name. Transforms
// are stored by name and definition only; the pipeline package rebuilds them
// from a catalog on load.
package persist
