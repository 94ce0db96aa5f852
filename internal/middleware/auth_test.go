// auth_test.go — Unit tests for API key hashing.
package middleware

import (
	"testing"
)

// TestHashAPIKey verifies that hashing is deterministic and produces
// fixed-width SHA-256 hex output.
func TestHashAPIKey(t *testing.T) {
	t.Run("known value", func(t *testing.T) {
		// SHA-256 of the empty string is a well-known constant.
		got := HashAPIKey("")
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got != want {
			t.Errorf("HashAPIKey(\"\") = %q, want %q", got, want)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		key := "pay_determinism_test"
		hash1 := HashAPIKey(key)
		hash2 := HashAPIKey(key)
		if hash1 != hash2 {
			t.Errorf("HashAPIKey is not deterministic: %q != %q", hash1, hash2)
		}
	})

	t.Run("different inputs different outputs", func(t *testing.T) {
		hash1 := HashAPIKey("pay_key_one")
		hash2 := HashAPIKey("pay_key_two")
		if hash1 == hash2 {
			t.Error("HashAPIKey produced same hash for different inputs")
		}
	})

	t.Run("output length", func(t *testing.T) {
		// 256 bits = 64 hex characters
		hash := HashAPIKey("pay_any_key")
		if len(hash) != 64 {
			t.Errorf("HashAPIKey output length = %d, want 64", len(hash))
		}
	})
}
