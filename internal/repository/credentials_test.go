package repository

import (
	"errors"
	"strings"
	"testing"
)

func TestSealer(t *testing.T) {
	s := NewSealer("k1")

	sealed, err := s.Seal("hunter22")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !strings.HasPrefix(sealed, sealedPrefix) || strings.Contains(sealed, "hunter22") {
		t.Fatalf("unexpected sealed form %q", sealed)
	}

	plain, err := s.Open(sealed)
	if err != nil || plain != "hunter22" {
		t.Fatalf("Open: %q, %v", plain, err)
	}

	if _, err := NewSealer("k2").Open(sealed); !errors.Is(err, ErrSealedCorrupt) {
		t.Fatalf("wrong key: expected ErrSealedCorrupt, got %v", err)
	}
	if _, err := NewSealer("").Open(sealed); !errors.Is(err, ErrSealedNoKey) {
		t.Fatalf("no key: expected ErrSealedNoKey, got %v", err)
	}

	// keyless sealer and legacy plain values pass through
	if v, _ := NewSealer("").Seal("open"); v != "open" {
		t.Fatalf("keyless seal changed value: %q", v)
	}
	if v, _ := s.Open("legacy"); v != "legacy" {
		t.Fatalf("plain value changed: %q", v)
	}
}
