package envelope

import (
	"fmt"

	"aim-crypto/go-envelope/internal/keycodec"
	"aim-crypto/go-envelope/internal/mnemonic"
	"aim-crypto/go-envelope/pkg/models"
)

const DefaultRandomKeySize = 32

// Encoder renders random key bytes as text.
type Encoder func([]byte) string

// RandomKey returns length random bytes in base58. A non-positive length
// means DefaultRandomKeySize.
func (c *Crypto) RandomKey(length int) (string, error) {
	return c.RandomKeyWith(length, nil)
}

func (c *Crypto) RandomKeyWith(length int, enc Encoder) (key string, err error) {
	defer func() { err = c.core.finish("random_key", err) }()

	if length <= 0 {
		length = DefaultRandomKeySize
	}
	if enc == nil {
		enc = keycodec.Encode
	}
	b, err := c.core.p.RandomBytes(length)
	if err != nil {
		return "", err
	}
	return enc(b), nil
}

// NewMnemonic returns a 24-word BIP-39 mnemonic for backing up a seed.
func (c *Crypto) NewMnemonic() (m string, err error) {
	defer func() { err = c.core.finish("mnemonic.new", err) }()
	return mnemonic.New()
}

// ValidMnemonic reports whether m is a well-formed BIP-39 mnemonic with a
// correct checksum.
func (c *Crypto) ValidMnemonic(m string) bool {
	return mnemonic.Valid(m)
}

// MnemonicSeed returns the BIP-39 seed of m. It can be passed to
// Asymmetric.KeyPair or Signatures.KeyPair to recover keypairs.
func (c *Crypto) MnemonicSeed(m, passphrase string) (seed models.KeyBytes, err error) {
	defer func() { err = c.core.finish("mnemonic.seed", err) }()

	b, err := mnemonic.Seed(m, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidKey, err)
	}
	return models.KeyBytes(b), nil
}
