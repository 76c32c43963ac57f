package envelope

import (
	"fmt"

	"aim-crypto/go-envelope/internal/payload"
	"aim-crypto/go-envelope/pkg/models"
)

// Symmetric seals payloads under a password-derived key with NaCl secretbox.
type Symmetric struct {
	c *core
}

func (s *Symmetric) Encrypt(p models.Payload, password models.Key) (out string, err error) {
	defer func() { err = s.c.finish("symmetric.encrypt", err, nonEmptyAttr("token", out)) }()

	msg, err := payload.Marshal(p)
	if err != nil {
		return "", err
	}
	key, err := s.c.secretBoxKey(password)
	if err != nil {
		return "", err
	}
	defer zeroBytes(key[:])
	nonce, err := s.c.p.BoxNonce()
	if err != nil {
		return "", err
	}
	return packToken(token{
		Nonce:   nonce[:],
		Message: s.c.p.SecretBoxSeal(msg, nonce, key),
	})
}

// Decrypt opens a token sealed by Encrypt. A cipher that is not base58 fails
// with ErrEncoding. A wrong password or a tampered token fails with
// ErrDecryption; a tampered envelope that no longer parses also matches
// ErrEncoding.
func (s *Symmetric) Decrypt(cipher string, password models.Key) (out models.Payload, err error) {
	defer func() { err = s.c.finish("symmetric.decrypt", err, nonEmptyAttr("token", cipher)) }()

	t, err := unpackToken(cipher)
	if err != nil {
		return models.Payload{}, err
	}
	key, err := s.c.secretBoxKey(password)
	if err != nil {
		return models.Payload{}, err
	}
	defer zeroBytes(key[:])
	plain, ok := s.c.p.SecretBoxOpen(t.Message, t.nonce(), key)
	if !ok {
		return models.Payload{}, fmt.Errorf("%w: wrong password or tampered token", models.ErrDecryption)
	}
	return payload.Unmarshal(plain)
}

func zeroBytes(b []byte) {
	clear(b)
}
