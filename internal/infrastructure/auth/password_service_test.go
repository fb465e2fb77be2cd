package auth

import (
	"strings"
	"testing"
)

func TestPasswordService_HashIsSaltedAndNeverPlaintext(t *testing.T) {
	svc := NewPasswordService(10)

	const plaintext = "longenough1"

	first, err := svc.Hash(plaintext)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := svc.Hash(plaintext)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if first == plaintext || second == plaintext {
		t.Error("hash must never equal the plaintext password")
	}
	if first == second {
		t.Error("hashing the same plaintext twice must yield different strings")
	}
	if !strings.HasPrefix(first, "$2a$") && !strings.HasPrefix(first, "$2b$") {
		t.Errorf("expected a bcrypt hash, got %q", first)
	}
}

func TestPasswordService_Verify(t *testing.T) {
	svc := NewPasswordService(10)

	hash, err := svc.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if !svc.Verify(hash, "correct horse battery staple") {
		t.Error("correct password should verify")
	}
	if svc.Verify(hash, "wrong password") {
		t.Error("wrong password should not verify")
	}
	if svc.Verify("not-a-hash", "anything") {
		t.Error("garbage hash should not verify")
	}
}

func TestPasswordService_MinimumCostEnforced(t *testing.T) {
	svc := NewPasswordService(4).(*PasswordServiceImpl)
	if svc.cost < 10 {
		t.Errorf("cost below 10 must be raised, got %d", svc.cost)
	}
}
