package utils

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plain password")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "Hunter2") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordTooLong(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1), bcrypt.MinCost); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("err = %v, want ErrPasswordTooLong", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("pw", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if NeedsRehash(hash, bcrypt.MinCost) {
		t.Fatal("same cost should not need a rehash")
	}
	if !NeedsRehash(hash, bcrypt.MinCost+1) {
		t.Fatal("higher cost should need a rehash")
	}
	if !NeedsRehash("not-a-hash", bcrypt.MinCost) {
		t.Fatal("garbage should need a rehash")
	}
}
