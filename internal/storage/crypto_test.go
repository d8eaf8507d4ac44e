package storage

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	_, _ = rand.Read(key)

	secret := "my-secret-password"
	encrypted, err := EncryptSecret(secret, key)
	if err != nil {
		t.Fatalf("EncryptSecret failed: %v", err)
	}

	if bytes.Contains(encrypted, []byte(secret)) {
		t.Error("ciphertext contains plaintext")
	}

	decrypted, err := DecryptSecret(encrypted, key)
	if err != nil {
		t.Fatalf("DecryptSecret failed: %v", err)
	}
	if decrypted != secret {
		t.Errorf("expected %q, got %q", secret, decrypted)
	}
}

func TestEncryptSecretNondeterministic(t *testing.T) {
	key := make([]byte, 32)
	_, _ = rand.Read(key)

	a, err := EncryptSecret("same", key)
	if err != nil {
		t.Fatalf("EncryptSecret failed: %v", err)
	}
	b, err := EncryptSecret("same", key)
	if err != nil {
		t.Fatalf("EncryptSecret failed: %v", err)
	}
	// Random nonce means two encryptions of the same value differ
	if bytes.Equal(a, b) {
		t.Error("expected distinct ciphertexts for the same plaintext")
	}
}

func TestEncryptSecretInvalidKey(t *testing.T) {
	_, err := EncryptSecret("secret", []byte("short"))
	if err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestDecryptSecretWrongKey(t *testing.T) {
	key1 := make([]byte, 32)
	key2 := make([]byte, 32)
	_, _ = rand.Read(key1)
	_, _ = rand.Read(key2)

	encrypted, err := EncryptSecret("secret", key1)
	if err != nil {
		t.Fatalf("EncryptSecret failed: %v", err)
	}

	_, err = DecryptSecret(encrypted, key2)
	if err != ErrDecryption {
		t.Errorf("expected ErrDecryption, got %v", err)
	}
}

func TestDecryptSecretTampered(t *testing.T) {
	key := make([]byte, 32)
	_, _ = rand.Read(key)

	encrypted, err := EncryptSecret("secret", key)
	if err != nil {
		t.Fatalf("EncryptSecret failed: %v", err)
	}

	// Flip a hex digit in the ciphertext portion
	tampered := make([]byte, len(encrypted))
	copy(tampered, encrypted)
	last := len(tampered) - 1
	if tampered[last] == 'a' {
		tampered[last] = 'b'
	} else {
		tampered[last] = 'a'
	}

	_, err = DecryptSecret(tampered, key)
	if err != ErrDecryption {
		t.Errorf("expected ErrDecryption, got %v", err)
	}
}

func TestDecryptSecretGarbage(t *testing.T) {
	key := make([]byte, 32)
	_, _ = rand.Read(key)

	for _, input := range [][]byte{
		[]byte("not hex at all!"),
		[]byte("abcd"), // too short for a nonce
		{},
	} {
		if _, err := DecryptSecret(input, key); err != ErrDecryption {
			t.Errorf("input %q: expected ErrDecryption, got %v", input, err)
		}
	}
}

func TestLookupHashDeterministic(t *testing.T) {
	a := LookupHash("tac_token")
	b := LookupHash("tac_token")
	if a != b {
		t.Error("LookupHash must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == LookupHash("tac_other") {
		t.Error("different tokens must hash differently")
	}
}

func TestHashVerifyToken(t *testing.T) {
	hash, err := HashToken("tac_abc123")
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}

	if err := VerifyToken("tac_abc123", hash); err != nil {
		t.Errorf("expected token to verify: %v", err)
	}
	if err := VerifyToken("tac_wrong", hash); err == nil {
		t.Error("expected verification failure for wrong token")
	}
}
