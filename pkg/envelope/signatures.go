package envelope

import (
	"crypto/ed25519"
	"fmt"
	"log/slog"

	"aim-crypto/go-envelope/internal/keycodec"
	"aim-crypto/go-envelope/internal/payload"
	"aim-crypto/go-envelope/internal/primitives"
	"aim-crypto/go-envelope/pkg/models"
)

// Signatures produces and checks detached Ed25519 signatures.
type Signatures struct {
	c *core
}

// KeyPair returns a random signing keypair for a nil seed, otherwise one
// derived from the stretched seed.
func (s *Signatures) KeyPair(seed models.Key) (kp models.SigningKeyPair, err error) {
	defer func() { err = s.c.finish("signatures.keypair", err, nonEmptyAttr("public_key", kp.PublicKey)) }()

	var pub ed25519.PublicKey
	var priv ed25519.PrivateKey
	if seed == nil {
		pub, priv, err = s.c.p.SignKeyPair()
	} else {
		var stretched []byte
		stretched, err = s.c.stretchKey(seed)
		if err != nil {
			return models.SigningKeyPair{}, err
		}
		pub, priv, err = s.c.p.SignSeedKeyPair(stretched)
	}
	if err != nil {
		return models.SigningKeyPair{}, err
	}
	return models.SigningKeyPair{
		PublicKey: keycodec.Encode(pub),
		SecretKey: keycodec.Encode(priv),
	}, nil
}

func (s *Signatures) Sign(p models.Payload, secretKey models.Key) (sig string, err error) {
	defer func() { err = s.c.finish("signatures.sign", err, nonEmptyAttr("signature", sig)) }()

	if secretKey == nil {
		return "", fmt.Errorf("%w: secret key is required", models.ErrInvalidKey)
	}
	sk, err := keycodec.KeyToBytes(secretKey, keycodec.Base58)
	if err != nil {
		return "", fmt.Errorf("secret key: %w", err)
	}
	if !primitives.IsSignSecretKey(sk) {
		return "", fmt.Errorf("%w: not an ed25519 secret key (%d bytes)", models.ErrInvalidKey, len(sk))
	}
	msg, err := payload.ToBytes(p)
	if err != nil {
		return "", err
	}
	out, err := s.c.p.SignDetached(msg, sk)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidKey, err)
	}
	return keycodec.Encode(out), nil
}

// Verify reports whether m.Signature is a valid signature of m.Payload by
// m.PublicKey. A mismatch is false with a nil error; errors are reserved for
// inputs that cannot be decoded at all.
func (s *Signatures) Verify(m models.SignedMessage) (ok bool, err error) {
	var pub []byte
	defer func() {
		err = s.c.finish("signatures.verify", err, publicKeyAttr("public_key", pub), slog.Bool("valid", ok))
	}()

	if m.PublicKey == nil || m.Signature == nil {
		return false, fmt.Errorf("%w: public key and signature are required", models.ErrInvalidKey)
	}
	pub, err = keycodec.KeyToBytes(m.PublicKey, keycodec.Base58)
	if err != nil {
		return false, fmt.Errorf("public key: %w", err)
	}
	if len(pub) != primitives.SignPublicKeySize {
		return false, fmt.Errorf("%w: public key is %d bytes, want %d", models.ErrInvalidKey, len(pub), primitives.SignPublicKeySize)
	}
	sig, err := keycodec.KeyToBytes(m.Signature, keycodec.Base58)
	if err != nil {
		return false, fmt.Errorf("signature: %w", err)
	}
	msg, err := payload.ToBytes(m.Payload)
	if err != nil {
		return false, err
	}
	return s.c.p.VerifyDetached(sig, msg, pub), nil
}
