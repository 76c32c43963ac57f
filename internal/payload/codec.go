package payload

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"aim-crypto/go-envelope/pkg/models"

	"github.com/vmihailenco/msgpack/v5"
)

// undefinedExtID tags Undefined on the wire so it survives the first encode
// pass of Canonical and can be pruned from the generic form.
const undefinedExtID int8 = 0x7e

type undefined struct{}

// Undefined marks a value as absent. Map entries and struct fields holding it
// are dropped before canonicalization; inside slices it becomes nil.
var Undefined any = undefined{}

func init() {
	msgpack.RegisterExt(undefinedExtID, undefined{})
}

func (undefined) MarshalMsgpack() ([]byte, error) {
	return []byte{}, nil
}

func (undefined) UnmarshalMsgpack([]byte) error {
	return nil
}

func isUndefined(v any) bool {
	switch v.(type) {
	case undefined, *undefined:
		return true
	}
	return false
}

// ToBytes canonicalizes p for signing, hashing and asymmetric encryption.
func ToBytes(p models.Payload) ([]byte, error) {
	switch p.Kind() {
	case models.PayloadText:
		return []byte(p.Text()), nil
	case models.PayloadBytes:
		return p.Bytes(), nil
	case models.PayloadObject:
		return Canonical(p.Value())
	default:
		return nil, fmt.Errorf("%w: unknown payload kind %d", models.ErrEncoding, p.Kind())
	}
}

func FromBytes(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", models.ErrDecode)
	}
	return string(b), nil
}

// Canonical encodes v as msgpack with map keys sorted at every depth. Structs
// and typed maps are first flattened to their generic form so that values with
// equal contents produce identical bytes. Undefined is pruned after
// flattening, wherever it was nested.
func Canonical(v any) ([]byte, error) {
	raw, err := encode(v, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncoding, err)
	}
	generic, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncoding, err)
	}
	out, err := encode(prune(generic), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncoding, err)
	}
	return out, nil
}

// Marshal is the scalar-native form used by symmetric encryption: text is a
// msgpack str, bytes a msgpack bin, objects their canonical encoding.
func Marshal(p models.Payload) ([]byte, error) {
	switch p.Kind() {
	case models.PayloadText:
		return encodeScalar(p.Text())
	case models.PayloadBytes:
		b := p.Bytes()
		if b == nil {
			b = []byte{}
		}
		return encodeScalar(b)
	case models.PayloadObject:
		return Canonical(p.Value())
	default:
		return nil, fmt.Errorf("%w: unknown payload kind %d", models.ErrEncoding, p.Kind())
	}
}

func Unmarshal(b []byte) (models.Payload, error) {
	v, err := decode(b)
	if err != nil {
		return models.Payload{}, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	switch t := v.(type) {
	case string:
		return models.Text(t), nil
	case []byte:
		return models.Bytes(t), nil
	default:
		return models.Object(prune(t)), nil
	}
}

func encodeScalar(v any) ([]byte, error) {
	out, err := encode(v, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncoding, err)
	}
	return out, nil
}

func encode(v any, sorted bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(sorted)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(b []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if isUndefined(val) {
				continue
			}
			out[k] = prune(val)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(t))
		for k, val := range t {
			if isUndefined(val) {
				continue
			}
			out[k] = prune(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			if isUndefined(val) {
				continue
			}
			out[i] = prune(val)
		}
		return out
	default:
		if isUndefined(v) {
			return nil
		}
		return v
	}
}
