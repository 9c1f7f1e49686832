package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Verify("s3cret", hash) {
		t.Fatalf("Verify rejected the right password")
	}
	if h.Verify("wrong", hash) {
		t.Fatalf("Verify accepted a wrong password")
	}
	if !h.IsHashed(hash) {
		t.Fatalf("IsHashed should recognise its own output")
	}
	if h.IsHashed("s3cret") || h.IsHashed("$2nothash") {
		t.Fatalf("IsHashed accepted a plaintext")
	}
}

func TestNewBcryptHasher_OutOfRangeCost(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
