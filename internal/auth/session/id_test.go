package session

import (
	"encoding/base64"
	"testing"
)

func TestNewSessionID_LengthAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		id, err := NewSessionID(32)
		if err != nil {
			t.Fatalf("NewSessionID: %v", err)
		}

		raw, err := base64.RawURLEncoding.DecodeString(id)
		if err != nil {
			t.Fatalf("id is not base64url: %v", err)
		}
		if len(raw) != 32 {
			t.Fatalf("expected 32 bytes of entropy, got %d", len(raw))
		}

		if seen[id] {
			t.Fatalf("duplicate session id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewSessionID_DefaultsSize(t *testing.T) {
	id, err := NewSessionID(0)
	if err != nil {
		t.Fatalf("NewSessionID: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		t.Fatalf("id is not base64url: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("expected default of 32 bytes, got %d", len(raw))
	}
}
