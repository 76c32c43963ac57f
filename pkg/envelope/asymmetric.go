package envelope

import (
	"fmt"
	"log/slog"

	"aim-crypto/go-envelope/internal/keycodec"
	"aim-crypto/go-envelope/internal/payload"
	"aim-crypto/go-envelope/internal/primitives"
	"aim-crypto/go-envelope/pkg/models"
)

// Asymmetric seals payloads between X25519 keypairs with NaCl box.
type Asymmetric struct {
	c *core
}

// KeyPair returns an encryption keypair. With a nil key the pair is random.
// Encoded 32-byte key material is taken as an existing secret key and its
// public key is derived. Anything else is a seed: it is stretched and the
// pair derived from it deterministically.
func (a *Asymmetric) KeyPair(secretKey models.Key) (kp models.EncryptionKeyPair, err error) {
	defer func() { err = a.c.finish("asymmetric.keypair", err, nonEmptyAttr("public_key", kp.PublicKey)) }()

	if secretKey == nil {
		pub, sec, err := a.c.p.BoxKeyPair()
		if err != nil {
			return models.EncryptionKeyPair{}, err
		}
		return encryptionPair(pub, sec), nil
	}

	b, material, err := keycodec.Interpret(secretKey)
	if err != nil {
		return models.EncryptionKeyPair{}, err
	}
	switch {
	case material && len(b) == primitives.BoxSecretKeySize:
		sec := new([primitives.BoxSecretKeySize]byte)
		copy(sec[:], b)
		pub, err := a.c.p.BoxPublicKey(sec)
		if err != nil {
			return models.EncryptionKeyPair{}, fmt.Errorf("%w: %v", models.ErrInvalidKey, err)
		}
		return encryptionPair(pub, sec), nil
	case material && primitives.IsSignSecretKey(b):
		return models.EncryptionKeyPair{}, fmt.Errorf("%w: signing secret key used as encryption key", models.ErrInvalidKey)
	}

	seed, err := a.c.stretch.Stretch(b)
	if err != nil {
		return models.EncryptionKeyPair{}, err
	}
	pub, sec, err := a.c.p.BoxSeedKeyPair(seed)
	if err != nil {
		return models.EncryptionKeyPair{}, err
	}
	return encryptionPair(pub, sec), nil
}

// Encrypt seals params.Secret for the recipient. Without a sender secret key
// an ephemeral keypair is used and its public key is embedded in the token.
func (a *Asymmetric) Encrypt(params models.EncryptParams) (out string, err error) {
	var attrs []slog.Attr
	defer func() {
		err = a.c.finish("asymmetric.encrypt", err, append(attrs, nonEmptyAttr("token", out))...)
	}()

	msg, err := payload.ToBytes(params.Secret)
	if err != nil {
		return "", err
	}
	recipient, err := boxKey(params.RecipientPublicKey, "recipient public key")
	if err != nil {
		return "", err
	}
	attrs = append(attrs, publicKeyAttr("recipient_public_key", recipient[:]))

	var t token
	var sec *[32]byte
	if params.SenderSecretKey == nil {
		pub, ephemeral, err := a.c.p.BoxKeyPair()
		if err != nil {
			return "", err
		}
		sec = ephemeral
		t.SenderPublicKey = keycodec.Encode(pub[:])
		attrs = append(attrs, publicKeyAttr("sender_public_key", pub[:]), slog.Bool("ephemeral", true))
	} else {
		sec, err = boxKey(params.SenderSecretKey, "sender secret key")
		if err != nil {
			return "", err
		}
	}

	nonce, err := a.c.p.BoxNonce()
	if err != nil {
		return "", err
	}
	t.Nonce = nonce[:]
	t.Message = a.c.p.BoxSeal(msg, nonce, recipient, sec)
	return packToken(t)
}

// Decrypt opens a token and returns the plaintext as UTF-8 text.
//
// A cipher that is not base58 fails with ErrEncoding. A base58 token whose
// envelope is malformed, or whose box fails authentication, fails with
// ErrDecryption; the malformed case also matches ErrEncoding.
func (a *Asymmetric) Decrypt(params models.DecryptParams) (out string, err error) {
	var sender []byte
	defer func() {
		err = a.c.finish("asymmetric.decrypt", err, publicKeyAttr("sender_public_key", sender), nonEmptyAttr("token", params.Cipher))
	}()

	b, sender, err := a.open(params)
	if err != nil {
		return "", err
	}
	return payload.FromBytes(b)
}

// DecryptBytes opens a token and returns the canonical plaintext bytes
// without UTF-8 validation.
func (a *Asymmetric) DecryptBytes(params models.DecryptParams) (out []byte, err error) {
	var sender []byte
	defer func() {
		err = a.c.finish("asymmetric.decrypt_bytes", err, publicKeyAttr("sender_public_key", sender), nonEmptyAttr("token", params.Cipher))
	}()
	out, sender, err = a.open(params)
	return out, err
}

// open returns the plaintext and, once resolved, the sender public key.
func (a *Asymmetric) open(params models.DecryptParams) ([]byte, []byte, error) {
	t, err := unpackToken(params.Cipher)
	if err != nil {
		return nil, nil, err
	}
	recipient, err := boxKey(params.RecipientSecretKey, "recipient secret key")
	if err != nil {
		return nil, nil, err
	}

	var sender *[32]byte
	switch {
	case params.SenderPublicKey != nil:
		sender, err = boxKey(params.SenderPublicKey, "sender public key")
	case t.SenderPublicKey != "":
		sender, err = boxKey(models.KeyString(t.SenderPublicKey), "embedded sender public key")
	default:
		err = fmt.Errorf("%w: no sender public key given or embedded", models.ErrDecryption)
	}
	if err != nil {
		return nil, nil, err
	}

	plain, ok := a.c.p.BoxOpen(t.Message, t.nonce(), sender, recipient)
	if !ok {
		return nil, sender[:], fmt.Errorf("%w: box authentication failed", models.ErrDecryption)
	}
	return plain, sender[:], nil
}

func boxKey(key models.Key, name string) (*[32]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: %s is required", models.ErrInvalidKey, name)
	}
	b, err := keycodec.KeyToBytes(key, keycodec.Base58)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(b) != primitives.BoxPublicKeySize {
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", models.ErrInvalidKey, name, len(b), primitives.BoxPublicKeySize)
	}
	out := new([32]byte)
	copy(out[:], b)
	return out, nil
}

func encryptionPair(pub, sec *[32]byte) models.EncryptionKeyPair {
	return models.EncryptionKeyPair{
		PublicKey: keycodec.Encode(pub[:]),
		SecretKey: keycodec.Encode(sec[:]),
	}
}
