package interview

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewSessionIDRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-uuid", "1234", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
		if _, err := NewSessionID(raw); err == nil {
			t.Fatalf("expected validation error for %q", raw)
		}
	}
}

func TestNewSessionIDCanonicalizes(t *testing.T) {
	raw := "6BA7B810-9DAD-11D1-80B4-00C04FD430C8"
	id, err := NewSessionID(raw)
	if err != nil {
		t.Fatalf("NewSessionID: %v", err)
	}
	if id.String() != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Fatalf("want canonical lowercase form, got %q", id.String())
	}
}

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()
	if _, err := uuid.Parse(id.String()); err != nil {
		t.Fatalf("generated id is not a valid UUID: %v", err)
	}
	if id.Equals(GenerateSessionID()) {
		t.Fatalf("generated ids should be unique")
	}
}
