package payload

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"aim-crypto/go-envelope/pkg/models"
)

type clientInfo struct {
	Version string `msgpack:"version"`
	Name    string `msgpack:"name"`
}

type linkEvent struct {
	User      string     `msgpack:"user"`
	Type      int        `msgpack:"type"`
	Client    clientInfo `msgpack:"client"`
	Index     int        `msgpack:"index"`
	Prev      *string    `msgpack:"prev,omitempty"`
	Timestamp int64      `msgpack:"timestamp"`
}

func TestToBytesText(t *testing.T) {
	for _, s := range []string{"", "The leopard pounces at noon", "💩", "ẓ̴̇a̷̰̚l̶̥͑g̶̼͂o̴̅͜"} {
		b, err := ToBytes(models.Text(s))
		if err != nil {
			t.Fatalf("encode %q failed: %v", s, err)
		}
		if !bytes.Equal(b, []byte(s)) {
			t.Fatalf("text must encode as utf-8: %q", s)
		}
		back, err := FromBytes(b)
		if err != nil || back != s {
			t.Fatalf("roundtrip mismatch: %q != %q (%v)", back, s, err)
		}
	}
	if b, _ := ToBytes(models.Text("")); len(b) != 0 {
		t.Fatalf("empty string must be zero bytes, got %d", len(b))
	}
}

func TestToBytesRawIsIdentity(t *testing.T) {
	in := []byte{0xff, 0x00, 0x10}
	b, err := ToBytes(models.Bytes(in))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.Equal(in, b) {
		t.Fatal("bytes payload must pass through")
	}
}

func TestFromBytesRejectsInvalidUTF8(t *testing.T) {
	if _, err := FromBytes([]byte{0xff, 0xfe}); !errors.Is(err, models.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestCanonicalIgnoresKeyOrder(t *testing.T) {
	a, err := ToBytes(models.Object(map[string]any{"a": 1, "b": 2, "c": 3}))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		b, err := ToBytes(models.Object(map[string]any{"c": 3, "b": 2, "a": 1}))
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if !bytes.Equal(a, b) {
			t.Fatal("canonical encoding must not depend on key order")
		}
	}
}

func TestCanonicalStructMatchesMap(t *testing.T) {
	ev := linkEvent{
		User:      "alice",
		Type:      0,
		Client:    clientInfo{Name: "test", Version: "0"},
		Index:     0,
		Timestamp: 1588335904711,
	}
	asMap := map[string]any{
		"timestamp": int64(1588335904711),
		"client":    map[string]any{"version": "0", "name": "test"},
		"index":     0,
		"type":      0,
		"user":      "alice",
		"prev":      Undefined,
	}
	a, err := Canonical(ev)
	if err != nil {
		t.Fatalf("struct encode failed: %v", err)
	}
	b, err := Canonical(asMap)
	if err != nil {
		t.Fatalf("map encode failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("struct and map must canonicalize identically:\n%x\n%x", a, b)
	}
}

func TestCanonicalUndefinedIsAbsentNotNull(t *testing.T) {
	withUndefined, err := Canonical(map[string]any{"a": 1, "prev": Undefined})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	without, err := Canonical(map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	withNil, err := Canonical(map[string]any{"a": 1, "prev": nil})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.Equal(withUndefined, without) {
		t.Fatal("undefined entries must be dropped")
	}
	if bytes.Equal(withNil, without) {
		t.Fatal("explicit nil must stay distinct from absent")
	}
}

type labels map[string]any

type draftEvent struct {
	User string `msgpack:"user"`
	Prev any    `msgpack:"prev"`
}

func TestCanonicalPrunesUndefinedEverywhere(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"struct field", draftEvent{User: "alice", Prev: Undefined}, map[string]any{"user": "alice"}},
		{"typed map", labels{"a": 1, "prev": Undefined}, map[string]any{"a": 1}},
		{"nested in struct", draftEvent{User: "bob", Prev: labels{"x": Undefined, "y": "z"}}, map[string]any{"user": "bob", "prev": map[string]any{"y": "z"}}},
		{"slice element", []any{1, Undefined, "x"}, []any{1, nil, "x"}},
		{"typed slice", []labels{{"k": Undefined}}, []any{map[string]any{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Canonical(tc.in)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			want, err := Canonical(tc.want)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("undefined must be pruned:\n%x\n%x", got, want)
			}
		})
	}
}

func TestUnmarshalDropsUndefinedExt(t *testing.T) {
	raw, err := encode(map[string]any{"a": "b", "gone": Undefined}, true)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	p, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(p.Value(), map[string]any{"a": "b"}) {
		t.Fatalf("unexpected value: %#v", p.Value())
	}
}

func TestCanonicalSortsNestedMaps(t *testing.T) {
	a, err := Canonical(map[string]any{"outer": map[string]any{"z": "1", "a": "2"}, "list": []any{map[string]any{"y": 1, "x": 2}}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	b, err := Canonical(map[string]any{"list": []any{map[string]any{"x": 2, "y": 1}}, "outer": map[string]any{"a": "2", "z": "1"}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("nested maps must be sorted")
	}
}

func TestMarshalUnmarshalKinds(t *testing.T) {
	cases := []struct {
		name string
		in   models.Payload
	}{
		{"text", models.Text("The leopard pounces at noon")},
		{"empty text", models.Text("")},
		{"emoji", models.Text("💩")},
		{"bytes", models.Bytes([]byte{1, 2, 3, 0xff})},
		{"empty bytes", models.Bytes(nil)},
		{"object", models.Object(map[string]any{"team": "Spies Я Us", "n": int64(-5), "ok": true, "nested": map[string]any{"k": "v"}})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Marshal(tc.in)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			out, err := Unmarshal(b)
			if err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if out.Kind() != tc.in.Kind() {
				t.Fatalf("kind mismatch: %s != %s", out.Kind(), tc.in.Kind())
			}
			switch tc.in.Kind() {
			case models.PayloadText:
				if out.Text() != tc.in.Text() {
					t.Fatalf("text mismatch: %q", out.Text())
				}
			case models.PayloadBytes:
				if !bytes.Equal(out.Bytes(), tc.in.Bytes()) {
					t.Fatalf("bytes mismatch: %v", out.Bytes())
				}
			case models.PayloadObject:
				if !reflect.DeepEqual(out.Value(), tc.in.Value()) {
					t.Fatalf("object mismatch: %#v", out.Value())
				}
			}
		})
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal(nil); !errors.Is(err, models.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}
