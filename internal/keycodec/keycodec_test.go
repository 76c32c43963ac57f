package keycodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"aim-crypto/go-envelope/pkg/models"
)

const signatureLike = "5VbnBWz6kBnV2wfJZaPgv81Mj7QtAsPmq3QZgc3zZqbYZEzEdZQ9r24BGZpN6mt6djyr7W2v1eKYnnG3KSHtCD67"

func TestDetect(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"5VbnBWz6kBnV2wfJZaPgv81Mj7QtAsPmq3QZgc3z1eKYnnG3KSHtCD67", true},
		{"1 can be confused with I and l", false},
		{"passw0rd", false},
		{"Oscar", false},
		{"", false},
		{"hello123", false},
		{"abcdef", true},
	}
	for _, tc := range cases {
		if got := Detect(tc.in); got != tc.want {
			t.Fatalf("Detect(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
}

func TestKeyToBytesBase58(t *testing.T) {
	b, err := KeyToBytes(models.KeyString(signatureLike), Base58)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(b) != 64 {
		t.Fatalf("unexpected length: %d", len(b))
	}
}

func TestKeyToBytesUTF8(t *testing.T) {
	b, err := KeyToBytes(models.KeyString("abcdef"), UTF8)
	if err != nil {
		t.Fatalf("utf8 failed: %v", err)
	}
	if len(b) != 6 {
		t.Fatalf("unexpected length: %d", len(b))
	}
}

func TestKeyToBytesPassesBytesThrough(t *testing.T) {
	b, err := KeyToBytes(models.KeyString(signatureLike), Base58)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	again, err := KeyToBytes(models.KeyBytes(b), Base58)
	if err != nil {
		t.Fatalf("passthrough failed: %v", err)
	}
	if !bytes.Equal(b, again) {
		t.Fatal("bytes key must pass through unchanged")
	}
}

func TestKeyToBytesRejectsInvalid(t *testing.T) {
	if _, err := KeyToBytes(models.KeyString("not base58!"), Base58); !errors.Is(err, models.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
	if _, err := KeyToBytes(nil, Base58); !errors.Is(err, models.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for nil key, got %v", err)
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	in := []byte{0, 0, 1, 2, 3, 250, 255}
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Fatalf("roundtrip mismatch: %v != %v", in, out)
	}
}

func TestInterpret(t *testing.T) {
	b, material, err := Interpret(models.KeyString("hello123"))
	if err != nil || material || string(b) != "hello123" {
		t.Fatalf("free text must be utf8: %v %v %q", err, material, b)
	}
	b, material, err = Interpret(models.KeyString(signatureLike))
	if err != nil || !material || len(b) != 64 {
		t.Fatalf("base58 must be decoded: %v %v %d", err, material, len(b))
	}
	_, material, err = Interpret(models.KeyBytes{1, 2, 3})
	if err != nil || !material {
		t.Fatalf("bytes must count as key material: %v %v", err, material)
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("alice"))
	b := Fingerprint([]byte("bob"))
	if !strings.HasPrefix(a, fingerprintPrefix) || a == b {
		t.Fatalf("unexpected fingerprints: %q %q", a, b)
	}
	if a != Fingerprint([]byte("alice")) {
		t.Fatal("fingerprint must be deterministic")
	}
	if Fingerprint(nil) != "" {
		t.Fatal("empty key must have empty fingerprint")
	}
}
