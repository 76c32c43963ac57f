package keycodec

import (
	"fmt"
	"strings"

	"aim-crypto/go-envelope/pkg/models"

	"github.com/mr-tron/base58/base58"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

type Encoding uint8

const (
	Base58 Encoding = iota
	UTF8
)

func Encode(b []byte) string {
	return base58.Encode(b)
}

func Decode(s string) ([]byte, error) {
	if !Detect(s) {
		return nil, fmt.Errorf("%w: not a base58 string", models.ErrEncoding)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncoding, err)
	}
	return b, nil
}

// Detect reports whether s is a non-empty string over the base58 alphabet.
func Detect(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

func KeyToBytes(key models.Key, enc Encoding) ([]byte, error) {
	switch k := key.(type) {
	case models.KeyBytes:
		return k, nil
	case models.KeyString:
		if enc == UTF8 {
			return []byte(k), nil
		}
		return Decode(string(k))
	case nil:
		return nil, fmt.Errorf("%w: key is required", models.ErrInvalidKey)
	default:
		return nil, fmt.Errorf("%w: unsupported key type %T", models.ErrInvalidKey, key)
	}
}

// Interpret turns a password or seed into bytes. Base58 strings are decoded,
// other strings are taken as UTF-8. material is true when the result came
// from encoded key material or raw bytes rather than free text.
func Interpret(key models.Key) (b []byte, material bool, err error) {
	switch k := key.(type) {
	case models.KeyBytes:
		return k, true, nil
	case models.KeyString:
		if Detect(string(k)) {
			b, err := Decode(string(k))
			return b, true, err
		}
		return []byte(k), false, nil
	case nil:
		return nil, false, fmt.Errorf("%w: key is required", models.ErrInvalidKey)
	default:
		return nil, false, fmt.Errorf("%w: unsupported key type %T", models.ErrInvalidKey, key)
	}
}
