package primitives

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	BoxPublicKeySize   = 32
	BoxSecretKeySize   = 32
	BoxNonceSize       = 24
	SecretBoxKeySize   = 32
	SecretBoxNonceSize = 24

	SignPublicKeySize = ed25519.PublicKeySize
	SignSecretKeySize = ed25519.PrivateKeySize
	SignSeedSize      = ed25519.SeedSize
	SignatureSize     = ed25519.SignatureSize

	GenericHashSize   = 32
	GenericHashKeyMax = blake2b.Size
)

var ErrKeySize = errors.New("primitive key size mismatch")

// Provider is the primitive capability surface. It holds no mutable state
// and may be shared between goroutines.
type Provider struct {
	rng io.Reader
}

func New(rng io.Reader) *Provider {
	if rng == nil {
		rng = rand.Reader
	}
	return &Provider{rng: rng}
}

func (p *Provider) RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.rng, buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}

func (p *Provider) BoxNonce() (*[BoxNonceSize]byte, error) {
	var nonce [BoxNonceSize]byte
	if _, err := io.ReadFull(p.rng, nonce[:]); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return &nonce, nil
}

func (p *Provider) BoxKeyPair() (pub, sec *[32]byte, err error) {
	return box.GenerateKey(p.rng)
}

// BoxSeedKeyPair follows libsodium crypto_box_seed_keypair: the secret key is
// the first half of SHA-512(seed).
func (p *Provider) BoxSeedKeyPair(seed []byte) (pub, sec *[32]byte, err error) {
	digest := sha512.Sum512(seed)
	sec = new([32]byte)
	copy(sec[:], digest[:32])
	pub, err = p.BoxPublicKey(sec)
	if err != nil {
		return nil, nil, err
	}
	return pub, sec, nil
}

func (p *Provider) BoxPublicKey(sec *[32]byte) (*[32]byte, error) {
	out, err := curve25519.X25519(sec[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("derive x25519 public key: %w", err)
	}
	pub := new([32]byte)
	copy(pub[:], out)
	return pub, nil
}

func (p *Provider) BoxSeal(msg []byte, nonce *[BoxNonceSize]byte, peerPublic, sec *[32]byte) []byte {
	return box.Seal(nil, msg, nonce, peerPublic, sec)
}

func (p *Provider) BoxOpen(sealed []byte, nonce *[BoxNonceSize]byte, peerPublic, sec *[32]byte) ([]byte, bool) {
	return box.Open(nil, sealed, nonce, peerPublic, sec)
}

func (p *Provider) SecretBoxSeal(msg []byte, nonce *[SecretBoxNonceSize]byte, key *[SecretBoxKeySize]byte) []byte {
	return secretbox.Seal(nil, msg, nonce, key)
}

func (p *Provider) SecretBoxOpen(sealed []byte, nonce *[SecretBoxNonceSize]byte, key *[SecretBoxKeySize]byte) ([]byte, bool) {
	return secretbox.Open(nil, sealed, nonce, key)
}

func (p *Provider) SignKeyPair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(p.rng)
}

func (p *Provider) SignSeedKeyPair(seed []byte) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	if len(seed) != SignSeedSize {
		return nil, nil, fmt.Errorf("%w: seed is %d bytes", ErrKeySize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(ed25519.PublicKey), priv, nil
}

// IsSignSecretKey reports whether sk has the Ed25519 seed||public layout.
func IsSignSecretKey(sk []byte) bool {
	if len(sk) != SignSecretKeySize {
		return false
	}
	derived := ed25519.NewKeyFromSeed(sk[:SignSeedSize])
	return ed25519.PublicKey(sk[SignSeedSize:]).Equal(derived.Public())
}

func (p *Provider) SignDetached(msg []byte, sk ed25519.PrivateKey) ([]byte, error) {
	if !IsSignSecretKey(sk) {
		return nil, fmt.Errorf("%w: not an ed25519 secret key", ErrKeySize)
	}
	return ed25519.Sign(sk, msg), nil
}

func (p *Provider) VerifyDetached(sig, msg []byte, pk ed25519.PublicKey) bool {
	if len(pk) != SignPublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(pk, msg, sig)
}

func (p *Provider) GenericHash(size int, msg, key []byte) ([]byte, error) {
	if len(key) > GenericHashKeyMax {
		return nil, fmt.Errorf("%w: hash key is %d bytes", ErrKeySize, len(key))
	}
	h, err := blake2b.New(size, key)
	if err != nil {
		return nil, err
	}
	h.Write(msg)
	return h.Sum(nil), nil
}

func (p *Provider) Scrypt(password, salt []byte, n, r, par, keyLen int) ([]byte, error) {
	return scrypt.Key(password, salt, n, r, par, keyLen)
}

func (p *Provider) Argon2id(password, salt []byte, time, memoryKB uint32, threads uint8, keyLen uint32) []byte {
	return argon2.IDKey(password, salt, time, memoryKB, threads, keyLen)
}
