package models

type PayloadKind uint8

const (
	PayloadText PayloadKind = iota
	PayloadBytes
	PayloadObject
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadText:
		return "text"
	case PayloadBytes:
		return "bytes"
	case PayloadObject:
		return "object"
	default:
		return "unknown"
	}
}

// Payload is the data handed to an envelope: text, raw bytes or a structured
// value. The zero value is the empty text payload.
type Payload struct {
	kind  PayloadKind
	text  string
	raw   []byte
	value any
}

func Text(s string) Payload {
	return Payload{kind: PayloadText, text: s}
}

func Bytes(b []byte) Payload {
	return Payload{kind: PayloadBytes, raw: b}
}

// Object wraps a map, slice, struct or scalar that is canonicalized with
// sorted keys before it is signed, hashed or encrypted.
func Object(v any) Payload {
	return Payload{kind: PayloadObject, value: v}
}

func (p Payload) Kind() PayloadKind { return p.kind }

func (p Payload) Text() string { return p.text }

func (p Payload) Bytes() []byte { return p.raw }

func (p Payload) Value() any { return p.value }
