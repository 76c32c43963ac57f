package envelope

import (
	"fmt"

	"aim-crypto/go-envelope/internal/keycodec"
	"aim-crypto/go-envelope/internal/primitives"
	"aim-crypto/go-envelope/pkg/models"

	"github.com/vmihailenco/msgpack/v5"
)

// token is the wire form of a sealed envelope. Field order is part of the
// format.
type token struct {
	Nonce           []byte `msgpack:"nonce"`
	Message         []byte `msgpack:"message"`
	SenderPublicKey string `msgpack:"senderPublicKey,omitempty"`
}

func packToken(t token) (string, error) {
	b, err := msgpack.Marshal(&t)
	if err != nil {
		return "", fmt.Errorf("%w: pack token: %v", models.ErrEncoding, err)
	}
	return keycodec.Encode(b), nil
}

// unpackToken reports a string that is not base58 as ErrEncoding only. A
// base58 string whose envelope is malformed was most likely tampered with, so
// it matches both ErrEncoding and ErrDecryption.
func unpackToken(s string) (token, error) {
	raw, err := keycodec.Decode(s)
	if err != nil {
		return token{}, fmt.Errorf("token: %w", err)
	}
	var t token
	if err := msgpack.Unmarshal(raw, &t); err != nil {
		return token{}, corruptToken("unpack token: %v", err)
	}
	if len(t.Nonce) != primitives.BoxNonceSize {
		return token{}, corruptToken("token nonce is %d bytes", len(t.Nonce))
	}
	if len(t.Message) == 0 {
		return token{}, corruptToken("token has no message")
	}
	return t, nil
}

func corruptToken(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", models.ErrEncoding, models.ErrDecryption, fmt.Sprintf(format, args...))
}

func (t token) nonce() *[primitives.BoxNonceSize]byte {
	var n [primitives.BoxNonceSize]byte
	copy(n[:], t.Nonce)
	return &n
}
