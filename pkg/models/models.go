package models

// Key is either the text form of key material (KeyString) or raw bytes
// (KeyBytes). A nil Key means the caller did not supply one.
type Key interface {
	keyMaterial()
}

type KeyString string

type KeyBytes []byte

func (KeyString) keyMaterial() {}
func (KeyBytes) keyMaterial()  {}

// EncryptionKeyPair is an X25519 box keypair encoded in base58.
type EncryptionKeyPair struct {
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key"`
}

func (kp EncryptionKeyPair) Public() Key { return KeyString(kp.PublicKey) }
func (kp EncryptionKeyPair) Secret() Key { return KeyString(kp.SecretKey) }

// SigningKeyPair is an Ed25519 keypair encoded in base58. The secret key is
// the 64-byte seed||public form.
type SigningKeyPair struct {
	PublicKey string `json:"public_key"`
	SecretKey string `json:"secret_key"`
}

func (kp SigningKeyPair) Public() Key { return KeyString(kp.PublicKey) }
func (kp SigningKeyPair) Secret() Key { return KeyString(kp.SecretKey) }

type SignedMessage struct {
	Payload   Payload
	Signature Key
	PublicKey Key
}

type EncryptParams struct {
	Secret             Payload
	RecipientPublicKey Key
	// SenderSecretKey is optional. When nil an ephemeral sender keypair is
	// generated and its public key travels inside the token.
	SenderSecretKey Key
}

type DecryptParams struct {
	Cipher string
	// SenderPublicKey is optional. When nil the public key embedded in the
	// token is used.
	SenderPublicKey    Key
	RecipientSecretKey Key
}

const (
	StretchScrypt   = "scrypt"
	StretchArgon2id = "argon2id"
)

type StretchParams struct {
	Algorithm      string `yaml:"algorithm"`
	ScryptN        int    `yaml:"scryptN"`
	ScryptR        int    `yaml:"scryptR"`
	ScryptP        int    `yaml:"scryptP"`
	Argon2Time     uint32 `yaml:"argon2Time"`
	Argon2MemoryKB uint32 `yaml:"argon2MemoryKB"`
	Argon2Threads  uint8  `yaml:"argon2Threads"`
}

// DefaultStretchParams uses argon2id with the libsodium interactive limits,
// the parameters existing derived keys were produced with.
func DefaultStretchParams() StretchParams {
	return StretchParams{
		Algorithm:      StretchArgon2id,
		ScryptN:        1 << 11,
		ScryptR:        8,
		ScryptP:        1,
		Argon2Time:     2,
		Argon2MemoryKB: 64 * 1024,
		Argon2Threads:  1,
	}
}
