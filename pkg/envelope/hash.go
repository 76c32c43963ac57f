package envelope

import (
	"fmt"

	"aim-crypto/go-envelope/internal/keycodec"
	"aim-crypto/go-envelope/internal/payload"
	"aim-crypto/go-envelope/internal/primitives"
	"aim-crypto/go-envelope/pkg/models"
)

// Hash returns the base58 BLAKE2b-256 digest of p keyed with seed. String
// seeds are used as UTF-8; a nil or empty seed hashes unkeyed.
func (c *Crypto) Hash(seed models.Key, p models.Payload) (digest string, err error) {
	defer func() { err = c.core.finish("hash", err) }()

	var key []byte
	if seed != nil {
		key, err = keycodec.KeyToBytes(seed, keycodec.UTF8)
		if err != nil {
			return "", err
		}
	}
	if len(key) > primitives.GenericHashKeyMax {
		return "", fmt.Errorf("%w: hash seed is %d bytes, max %d", models.ErrInvalidKey, len(key), primitives.GenericHashKeyMax)
	}
	msg, err := payload.ToBytes(p)
	if err != nil {
		return "", err
	}
	sum, err := c.core.p.GenericHash(primitives.GenericHashSize, msg, key)
	if err != nil {
		return "", err
	}
	return keycodec.Encode(sum), nil
}
