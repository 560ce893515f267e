package store

import (
	"context"
	"strings"
	"testing"

	"github.com/L1malucas/smarted-sub000/internal/crypto"
)

func testCryptoService(t *testing.T) *crypto.Service {
	t.Helper()

	provider, err := crypto.NewStaticProvider(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("static provider: %v", err)
	}

	return crypto.NewService(provider)
}

// Contact columns default to the empty string when a report has no contact
// data. An empty value must come back as an empty field, not a decrypt error.
func TestDecryptContactEmptyCiphertext(t *testing.T) {
	s := &CandidateStore{}

	got, err := s.decryptContact(context.Background(), "tenant-1", "")
	if err != nil {
		t.Fatalf("decryptContact(\"\") error: %v", err)
	}
	if got != "" {
		t.Errorf("decryptContact(\"\") = %q, want empty", got)
	}
}

func TestDecryptContactRoundTrip(t *testing.T) {
	svc := testCryptoService(t)
	s := &CandidateStore{Base: Base{Crypto: svc}}
	ctx := context.Background()

	cipher, err := svc.Encrypt(ctx, "tenant-1", []byte("ada@example.com"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	got, err := s.decryptContact(ctx, "tenant-1", cipher)
	if err != nil {
		t.Fatalf("decryptContact error: %v", err)
	}
	if got != "ada@example.com" {
		t.Errorf("decryptContact = %q, want %q", got, "ada@example.com")
	}
}

func TestDecryptContactGarbageCiphertext(t *testing.T) {
	s := &CandidateStore{Base: Base{Crypto: testCryptoService(t)}}

	if _, err := s.decryptContact(context.Background(), "tenant-1", "@@not-base64@@"); err == nil {
		t.Error("expected error for malformed ciphertext")
	}
}
