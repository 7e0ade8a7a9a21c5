// Package profile はプロフィールの表示・写真更新・設定変更を提供する。
package profile

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/kizuna/internal/auth"
	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/repository"
	"github.com/hitoshi/kizuna/internal/security"
	"github.com/hitoshi/kizuna/internal/storage"
)

// View はプロフィールのAPI表現。
type View struct {
	Username        string             `json:"username"`
	ProfilePhotoURL string             `json:"profile_photo_url,omitempty"`
	Bio             string             `json:"bio,omitempty"`
	PhotoHistory    []PhotoHistoryView `json:"photo_history"`
	CreatedAt       time.Time          `json:"created_at"`
}

// PhotoHistoryView は過去のプロフィール写真1件のAPI表現。
type PhotoHistoryView struct {
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// SettingsUpdate は設定変更リクエストを表す。nilフィールドは変更しない。
type SettingsUpdate struct {
	CurrentPassword string
	NewUsername     *string
	NewPassword     *string
	Bio             *string
}

// SettingsResult は設定変更後の状態を表す。ユーザー名変更後は
// クライアントが新しいトークンを取り直すためにUsernameを参照する。
type SettingsResult struct {
	Username string `json:"username"`
	Bio      string `json:"bio,omitempty"`
}

// Service はプロフィールのビジネスロジックを提供する。
type Service struct {
	userRepo         repository.UserRepository
	photoHistoryRepo repository.PhotoHistoryRepository
	sanitizer        security.ContentSanitizerService
	now              func() time.Time
}

// NewService はプロフィールサービスを生成する。
func NewService(
	userRepo repository.UserRepository,
	photoHistoryRepo repository.PhotoHistoryRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		userRepo:         userRepo,
		photoHistoryRepo: photoHistoryRepo,
		sanitizer:        sanitizer,
		now:              time.Now,
	}
}

// Get は指定ユーザーのプロフィールを写真履歴付きで返す。
func (s *Service) Get(ctx context.Context, username string) (*View, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(username)
	}

	history, err := s.photoHistoryRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	historyViews := make([]PhotoHistoryView, 0, len(history))
	for _, h := range history {
		historyViews = append(historyViews, PhotoHistoryView{
			URL:       h.PhotoURL,
			CreatedAt: h.CreatedAt,
		})
	}

	return &View{
		Username:        user.Username,
		ProfilePhotoURL: user.ProfilePhotoURL,
		Bio:             user.Bio,
		PhotoHistory:    historyViews,
		CreatedAt:       user.CreatedAt,
	}, nil
}

// UpdatePhoto はプロフィール写真を差し替え、旧URLを履歴に残さず
// 新URLを履歴へ追記する。履歴は差し替えのたびに1件ずつ増える。
func (s *Service) UpdatePhoto(ctx context.Context, username string, file *storage.SavedFile) (*View, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(username)
	}

	if err := s.userRepo.UpdateProfilePhoto(ctx, username, file.URL); err != nil {
		return nil, err
	}

	history := &model.PhotoHistory{
		ID:        uuid.New().String(),
		Username:  username,
		PhotoURL:  file.URL,
		CreatedAt: s.now().UTC(),
	}
	if err := s.photoHistoryRepo.Create(ctx, history); err != nil {
		return nil, err
	}

	return s.Get(ctx, username)
}

// UpdateSettings はユーザー名・パスワード・bioを変更する。
// すべての変更に現在のパスワードの再確認を要求する。
// ユーザー名の変更は全テーブルの著者参照を単一トランザクションで
// カスケード更新し、変更後の投稿・コメント・メッセージは新しい名前で表示される。
func (s *Service) UpdateSettings(ctx context.Context, username string, update SettingsUpdate) (*SettingsResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(username)
	}

	if !auth.VerifyPassword(user.PasswordHash, update.CurrentPassword) {
		return nil, model.NewInvalidCredentialsError()
	}

	// 新しいユーザー名の空き確認は書き込みの前に行う。
	// 途中でUSERNAME_TAKENになった場合にbioやパスワードだけが
	// 更新済みという部分成功を残さないため。
	var newName string
	if update.NewUsername != nil && *update.NewUsername != "" && *update.NewUsername != username {
		newName = *update.NewUsername
		existing, err := s.userRepo.FindByUsername(ctx, newName)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, model.NewUsernameTakenError(newName)
		}
	}

	var passwordHash *string
	if update.NewPassword != nil && *update.NewPassword != "" {
		hashed, err := auth.HashPassword(*update.NewPassword)
		if err != nil {
			return nil, err
		}
		passwordHash = &hashed
	}

	var bio *string
	if update.Bio != nil {
		clean := s.sanitizer.Sanitize(*update.Bio)
		bio = &clean
	}

	if passwordHash != nil || bio != nil {
		if err := s.userRepo.UpdateSettings(ctx, username, passwordHash, bio); err != nil {
			return nil, err
		}
	}

	result := &SettingsResult{Username: username}
	if bio != nil {
		result.Bio = *bio
	} else {
		result.Bio = user.Bio
	}

	if newName != "" {
		if err := s.userRepo.Rename(ctx, username, newName); err != nil {
			return nil, err
		}
		result.Username = newName
	}

	return result, nil
}
