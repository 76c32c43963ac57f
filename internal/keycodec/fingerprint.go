package keycodec

import (
	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
)

const fingerprintPrefix = "fp1"

// Fingerprint is a short, non-reversible label for public key material, safe
// to put in logs.
func Fingerprint(publicKey []byte) string {
	if len(publicKey) == 0 {
		return ""
	}
	h := blake2b.Sum256(publicKey)
	enc := base58.Encode(h[:])
	if len(enc) > 12 {
		enc = enc[:12]
	}
	return fingerprintPrefix + enc
}

func FingerprintString(encoded string) string {
	b, err := Decode(encoded)
	if err != nil {
		return Fingerprint([]byte(encoded))
	}
	return Fingerprint(b)
}
