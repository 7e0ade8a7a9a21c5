// Package auth はパスワード認証とベアラートークンの発行・検証を提供する。
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer はJWTのissクレームに設定する発行者名。
const tokenIssuer = "kizuna"

// TokenService はユーザー名に紐付いたベアラートークンの発行・検証を行う。
// ステートレスなHS256署名JWTを使用する。
type TokenService struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewTokenService はTokenServiceを生成する。
func NewTokenService(secret []byte, maxAge time.Duration) *TokenService {
	return &TokenService{
		secret: secret,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue は指定ユーザー名に紐付いたトークンを発行する。
func (s *TokenService) Issue(username string) (string, error) {
	now := s.now()

	claims := &jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}

	return signed, nil
}

// Verify はトークンを検証し、紐付いたユーザー名を返す。
// 署名不正・期限切れ・署名方式の不一致はすべてエラーになる。
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("想定外の署名方式です: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return "", fmt.Errorf("トークンの検証に失敗しました: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("トークンのクレームが不正です")
	}

	return claims.Subject, nil
}
