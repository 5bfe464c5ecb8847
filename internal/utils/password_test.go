package utils

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	passwords := []string{
		"hunter2",
		"pässwörd-ünïcødé",
		"मीरा के फूल",
		"🌸🌼🌻",
		strings.Repeat("long-password-", 20), // well past bcrypt's 72 bytes
	}
	for _, pw := range passwords {
		hash, err := HashPassword(pw, bcrypt.MinCost)
		if err != nil {
			t.Fatalf("HashPassword(%q): %v", pw, err)
		}
		if hash == pw {
			t.Fatalf("password stored in plaintext")
		}
		if !VerifyPassword(hash, pw) {
			t.Fatalf("VerifyPassword rejected the original password %q", pw)
		}
		if VerifyPassword(hash, pw+"x") {
			t.Fatalf("VerifyPassword accepted a different password for %q", pw)
		}
	}
}

func TestLongPasswordsDifferBeyond72Bytes(t *testing.T) {
	prefix := strings.Repeat("a", 80)
	hash, err := HashPassword(prefix+"1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if VerifyPassword(hash, prefix+"2") {
		t.Fatalf("passwords sharing a 72-byte prefix must not collide")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, _ := HashPassword("same", bcrypt.MinCost)
	b, _ := HashPassword("same", bcrypt.MinCost)
	if a == b {
		t.Fatalf("expected distinct salts")
	}
}
