package util

import (
	"errors"
	"strings"
	"testing"
)

const (
	testKey = "e86f449a48e5f1cbedae6a6fc6c92902"
	testIV  = "e86f449a48e5f1cb"
)

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()
	c, err := NewFieldCipher(testKey, testIV)
	if err != nil {
		t.Fatalf("NewFieldCipher returned error: %v", err)
	}
	return c
}

func TestFieldCipherRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	inputs := []string{
		"",
		"1234567890",
		"SBIN0001234",
		"merchant@upi",
		"exactly-16-bytes",
		"ಕನ್ನಡ ಬ್ಯಾಂಕ್ ಖಾತೆ",
		strings.Repeat("x", 1000),
	}
	for _, in := range inputs {
		enc := c.Encrypt(in)
		if enc == in && in != "" {
			t.Fatalf("ciphertext equals plaintext for %q", in)
		}
		got, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("Decrypt(%q) returned error: %v", enc, err)
		}
		if got != in {
			t.Fatalf("round trip mismatch: want %q, got %q", in, got)
		}
	}
}

func TestFieldCipherIsDeterministic(t *testing.T) {
	c := newTestCipher(t)
	if c.Encrypt("4111111111111111") != c.Encrypt("4111111111111111") {
		t.Fatal("expected fixed-IV encryption to be deterministic")
	}
}

func TestFieldCipherDecryptFailures(t *testing.T) {
	c := newTestCipher(t)

	for _, bad := range []string{"zz", "abcd", ""} {
		if _, err := c.Decrypt(bad); !errors.Is(err, ErrDecryption) {
			t.Fatalf("Decrypt(%q): expected ErrDecryption, got %v", bad, err)
		}
	}

	other, err := NewFieldCipher(strings.Repeat("k", 32), testIV)
	if err != nil {
		t.Fatalf("NewFieldCipher returned error: %v", err)
	}
	if got, err := other.Decrypt(c.Encrypt("account-number-001")); err == nil && got == "account-number-001" {
		t.Fatal("expected ciphertext from another key not to decrypt to the plaintext")
	}
}

func TestNewFieldCipherValidatesLengths(t *testing.T) {
	if _, err := NewFieldCipher("short", testIV); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := NewFieldCipher(testKey, "short"); err == nil {
		t.Fatal("expected error for short iv")
	}
}

func TestHashToken(t *testing.T) {
	raw := "4f1c0a"
	hash := HashToken(raw)
	if len(hash) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(hash))
	}
	if hash == raw {
		t.Fatal("hash must differ from raw token")
	}
	if HashToken(raw) != hash {
		t.Fatal("expected hashing to be stable")
	}
	// sha256("abc")
	if HashToken("abc") != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatal("unexpected sha256 digest")
	}
}
