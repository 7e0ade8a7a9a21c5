package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/kizuna/internal/model"
)

type mockUserRepo struct {
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.findByUsernameFn(ctx, username)
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) UpdateProfilePhoto(ctx context.Context, username, photoURL string) error {
	return nil
}
func (m *mockUserRepo) UpdateSettings(ctx context.Context, username string, passwordHash, bio *string) error {
	return nil
}
func (m *mockUserRepo) UpdateReadCheckpoint(ctx context.Context, username string, category model.ReadCategory, readAt time.Time) error {
	return nil
}
func (m *mockUserRepo) Rename(ctx context.Context, oldName, newName string) error { return nil }

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("family-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	users := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{
				Username:        username,
				PasswordHash:    string(hash),
				Bio:             "father",
				ProfilePhotoURL: "/uploads/p.jpg",
			}, nil
		},
	}
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	svc := NewService(users, tokens)

	result, err := svc.Login(context.Background(), "yusuf", "family-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.Username != "yusuf" {
		t.Errorf("result.Username = %v, want %v", result.Username, "yusuf")
	}
	if result.Bio != "father" {
		t.Errorf("result.Bio = %v, want %v", result.Bio, "father")
	}

	// 発行されたトークンで本人確認できること
	username, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if username != "yusuf" {
		t.Errorf("verified username = %v, want %v", username, "yusuf")
	}
}

func TestLogin_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	users := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			if username == "yusuf" {
				return &model.User{Username: username, PasswordHash: string(hash)}, nil
			}
			return nil, nil
		},
	}
	svc := NewService(users, NewTokenService([]byte("test-secret"), time.Hour))

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "ghost", "correct"},
		{"wrong password", "yusuf", "wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			apiErr, ok := err.(*model.APIError)
			if !ok {
				t.Fatalf("error type = %T, want *model.APIError", err)
			}
			if apiErr.Code != model.ErrCodeInvalidCredentials {
				t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeInvalidCredentials)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !VerifyPassword(hash, "secret") {
		t.Error("VerifyPassword() = false, want true")
	}
	if VerifyPassword(hash, "other") {
		t.Error("VerifyPassword() with wrong password = true, want false")
	}
}
