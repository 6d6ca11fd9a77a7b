package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValueRedactsSecrets(t *testing.T) {
	if got := sanitizeValue("jwt_secret_key", "abc"); got != "[REDACTED]" {
		t.Fatalf("secret: want=[REDACTED] got=%v", got)
	}
	if got := sanitizeValue("authorization", "Bearer x"); got != "[REDACTED]" {
		t.Fatalf("authorization: want=[REDACTED] got=%v", got)
	}
	if got := sanitizeValue("container_id", "c-1"); got != "c-1" {
		t.Fatalf("container_id should pass through, got=%v", got)
	}
}

func TestSanitizeValueHashesActorIDs(t *testing.T) {
	got, ok := sanitizeValue("actor_id", "6a1f").(string)
	if !ok || !strings.HasPrefix(got, "hash:") {
		t.Fatalf("actor_id should be hashed, got=%v", got)
	}
	if got == "hash:" {
		t.Fatalf("hash should not be empty")
	}
	if again := sanitizeValue("actor_id", "6a1f"); again != got {
		t.Fatalf("hash should be stable: %v vs %v", again, got)
	}
}

func TestNewTestModeDiscards(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.With("module", "containers").Info("discarded", "k", "v")
	l.Sync()
}
