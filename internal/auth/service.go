package auth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/repository"
)

// LoginResult はログイン成功時に返す情報を表す。
type LoginResult struct {
	Token           string
	Username        string
	ProfilePhotoURL string
	Bio             string
}

// Service はログイン認証のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokens *TokenService) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login はユーザー名とパスワードを検証し、トークンを発行する。
// ユーザー不在とパスワード誤りは区別せずINVALID_CREDENTIALSを返す
// （ユーザー名の存在を外部に漏らさない）。
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ログイン時のユーザー検索に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("トークンの発行に失敗しました: %w", err)
	}

	slog.Info("user logged in", slog.String("username", user.Username))

	return &LoginResult{
		Token:           token,
		Username:        user.Username,
		ProfilePhotoURL: user.ProfilePhotoURL,
		Bio:             user.Bio,
	}, nil
}

// HashPassword はパスワードのbcryptハッシュを生成する。
// ユーザー作成（seedコマンド）と設定更新で使用する。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword は平文パスワードがハッシュと一致するかを返す。
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
