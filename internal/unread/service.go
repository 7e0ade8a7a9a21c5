// Package unread は未読件数の集計と既読チェックポイントの管理を提供する。
//
// 未読状態はメッセージ側のフラグではなく、ユーザーごとの既読チェックポイント
// （最後に各画面を見た時刻）として保持する。未読件数はチェックポイント以降に
// 他人が作成したエントリ数をその場で数えて求める。
package unread

import (
	"context"
	"time"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/repository"
)

// Service は未読件数の問い合わせと既読化を担う。
type Service struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	messageRepo repository.MessageRepository
	now         func() time.Time
}

// NewService は未読サービスを生成する。
func NewService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	messageRepo repository.MessageRepository,
) *Service {
	return &Service{
		userRepo:    userRepo,
		postRepo:    postRepo,
		messageRepo: messageRepo,
		now:         time.Now,
	}
}

// Counts は指定ユーザーのチャット・フィード両方の未読件数を返す。
// 自分自身の作成したエントリは数えない。
func (s *Service) Counts(ctx context.Context, username string) (*model.UnreadCounts, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(username)
	}

	chat, err := s.messageRepo.CountUnread(ctx, username, user.LastChatReadAt)
	if err != nil {
		return nil, err
	}

	feed, err := s.postRepo.CountUnread(ctx, username, user.LastFeedReadAt)
	if err != nil {
		return nil, err
	}

	return &model.UnreadCounts{Chat: chat, Feed: feed}, nil
}

// MarkRead は指定カテゴリの既読チェックポイントを現在時刻へ進める。
// 冪等であり、未読が0件のときに呼んでも結果は変わらない。
func (s *Service) MarkRead(ctx context.Context, username string, category model.ReadCategory) error {
	if !category.Valid() {
		return model.NewInvalidRequestError("typeはchatまたはfeedである必要があります")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return model.NewUserNotFoundError(username)
	}

	return s.userRepo.UpdateReadCheckpoint(ctx, username, category, s.now().UTC())
}
