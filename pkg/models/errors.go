package models

import "errors"

var (
	// ErrEncoding marks a malformed text-encoded key, signature or token.
	ErrEncoding = errors.New("malformed encoding")
	// ErrInvalidKey marks key material of the wrong family or length.
	ErrInvalidKey = errors.New("invalid key")
	// ErrDecryption marks a rejected authenticated decryption or a token
	// whose sender public key cannot be resolved.
	ErrDecryption = errors.New("decryption failed")
	// ErrDecode marks decrypted bytes that are not valid UTF-8 or msgpack.
	ErrDecode = errors.New("decode failed")
)
