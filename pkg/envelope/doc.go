// Package envelope seals, signs and hashes payloads and exchanges the
// results as base58 strings.
//
// Encryption keypairs are X25519 (NaCl box) and signing keypairs are Ed25519.
// The two families are not interchangeable: passing a key of one family to an
// operation of the other fails with models.ErrInvalidKey.
//
// Structured payloads are canonicalized as msgpack with map keys sorted at
// every depth, so two objects with equal contents sign and hash identically
// regardless of field order.
package envelope
