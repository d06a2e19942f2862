package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hashed, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash returned error: %v", err)
	}
	if hashed == "password123" {
		t.Fatal("hash must not equal the plaintext")
	}

	ok, err := hasher.Verify("password123", hashed)
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if !ok {
		t.Fatal("verify should succeed for the original password")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hashed, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash returned error: %v", err)
	}

	ok, err := hasher.Verify("Hello World", hashed)
	if err != nil {
		t.Fatalf("verify returned error for a wrong password: %v", err)
	}
	if ok {
		t.Fatal("verify should fail for a different password")
	}
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash returned error: %v", err)
	}
	second, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash returned error: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}

	// どちらのハッシュでも検証は通る
	for _, h := range []string{first, second} {
		ok, err := hasher.Verify("password123", h)
		if err != nil || !ok {
			t.Fatalf("verify failed for %q: ok=%v err=%v", h, ok, err)
		}
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	if _, err := hasher.Verify("password123", "not-a-bcrypt-hash"); err == nil {
		t.Fatal("expected error for a malformed hash")
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	hasher := NewHasher(-1)
	if hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want default %d", hasher.cost, bcrypt.DefaultCost)
	}

	hasher = NewHasher(bcrypt.MinCost)
	if hasher.cost != bcrypt.MinCost {
		t.Fatalf("cost = %d, want %d", hasher.cost, bcrypt.MinCost)
	}
}
