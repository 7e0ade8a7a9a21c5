package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	token, err := svc.Issue("yusuf")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	username, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if username != "yusuf" {
		t.Errorf("username = %v, want %v", username, "yusuf")
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("secret-a"), time.Hour)
	verifier := NewTokenService([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue("yusuf")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() error = nil, want signature error")
	}
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return issued }
	token, err := svc.Issue("yusuf")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// 有効期限の直後に進める
	svc.now = func() time.Time { return issued.Add(time.Hour + time.Minute) }
	if _, err := svc.Verify(token); err == nil {
		t.Error("Verify() error = nil, want expiration error")
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	for _, token := range []string{"", "not-a-token", strings.Repeat("a", 100)} {
		if _, err := svc.Verify(token); err == nil {
			t.Errorf("Verify(%q) error = nil, want error", token)
		}
	}
}
