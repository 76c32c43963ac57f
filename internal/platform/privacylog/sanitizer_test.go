package privacylog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"aim-crypto/go-envelope/internal/keycodec"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	return payload
}

func TestSanitizingHandlerRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))
	logger.Info("test", "secret_key", "5Vbn", "password", "hunter2", "seed", "s", "plaintext", "hi", "operation", "sign")

	payload := decodeLine(t, &buf)
	for _, key := range []string{"secret_key", "password", "seed", "plaintext"} {
		if got, _ := payload[key].(string); got != redactedValue {
			t.Fatalf("expected %s redacted, got %q", key, got)
		}
	}
	if got, _ := payload["operation"].(string); got != "sign" {
		t.Fatalf("expected untouched operation, got %q", got)
	}
	if strings.Contains(buf.String(), "hunter2") {
		t.Fatal("password leaked into log output")
	}
}

func TestSanitizingHandlerFingerprintsPublicKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil)))
	pub := keycodec.Encode(bytes.Repeat([]byte{9}, 32))
	logger.Info("test", "recipient_public_key", pub, "token", "abc")

	payload := decodeLine(t, &buf)
	if _, ok := payload["recipient_public_key"]; ok {
		t.Fatal("raw public key should not be present")
	}
	if got, _ := payload["recipient_public_key_fp"].(string); got != keycodec.FingerprintString(pub) {
		t.Fatalf("unexpected public key fingerprint: %q", got)
	}
	if got, _ := payload["token_fp"].(string); !strings.HasPrefix(got, "fp_") {
		t.Fatalf("unexpected token fingerprint: %q", got)
	}
}

func TestSanitizingHandlerSanitizesGroupsAndWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapHandler(slog.NewJSONHandler(&buf, nil))).With("password", "x")
	logger.Info("test", slog.Group("keys", slog.String("secret_key", "y"), slog.String("kind", "box")))

	payload := decodeLine(t, &buf)
	if got, _ := payload["password"].(string); got != redactedValue {
		t.Fatalf("expected redacted With attr, got %q", got)
	}
	group, _ := payload["keys"].(map[string]any)
	if got, _ := group["secret_key"].(string); got != redactedValue {
		t.Fatalf("expected redacted group attr, got %v", group)
	}
	if got, _ := group["kind"].(string); got != "box" {
		t.Fatalf("expected untouched group attr, got %v", group)
	}
}

func TestSanitizingHandlerImplementsSlogHandlerContract(t *testing.T) {
	var buf bytes.Buffer
	h := WrapHandler(slog.NewJSONHandler(&buf, nil))
	if WrapHandler(h) != h {
		t.Fatal("wrapping twice must be a no-op")
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected handler enabled for info")
	}
	rec := slog.NewRecord(time.Now().UTC(), slog.LevelInfo, "msg", 0)
	rec.AddAttrs(slog.String("sender_public_key", "abc"))
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !strings.Contains(buf.String(), "sender_public_key_fp") {
		t.Fatalf("expected sanitized public key, got %s", buf.String())
	}
}
