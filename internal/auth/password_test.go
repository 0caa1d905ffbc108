package auth

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "s3cret" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !VerifyPassword(h, "s3cret") {
		t.Fatalf("expected match")
	}
	if VerifyPassword(h, "wrong") {
		t.Fatalf("expected mismatch")
	}
}

func TestVerifyPasswordFailsClosed(t *testing.T) {
	// A malformed stored hash is a non-match, never a panic or a pass.
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Fatalf("malformed hash must not match")
	}
	if VerifyPassword("", "anything") {
		t.Fatalf("empty hash must not match")
	}
	if VerifyPassword("$2a$12$abc", "") {
		t.Fatalf("empty password must not match")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
