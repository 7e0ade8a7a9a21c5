// Package chat は家族全員で共有するチャットボードのドメインロジックを提供する。
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/realtime"
	"github.com/hitoshi/kizuna/internal/repository"
	"github.com/hitoshi/kizuna/internal/security"
	"github.com/hitoshi/kizuna/internal/storage"
)

// Service はチャットメッセージの作成・更新・削除と一覧取得を担う。
// 各ミューテーションはちょうど1件のWebSocketイベントを発行する。
type Service struct {
	messageRepo    repository.MessageRepository
	attachmentRepo repository.AttachmentRepository
	sanitizer      security.ContentSanitizerService
	broadcaster    realtime.Broadcaster
	now            func() time.Time
}

// NewService はチャットサービスを生成する。
func NewService(
	messageRepo repository.MessageRepository,
	attachmentRepo repository.AttachmentRepository,
	sanitizer security.ContentSanitizerService,
	broadcaster realtime.Broadcaster,
) *Service {
	return &Service{
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		sanitizer:      sanitizer,
		broadcaster:    broadcaster,
		now:            time.Now,
	}
}

// ListMessages は全メッセージを作成日時の昇順（古い順）で返す。
// 添付ファイルはメッセージID群に対する一括問い合わせでまとめて解決する。
func (s *Service) ListMessages(ctx context.Context) ([]MessageView, error) {
	messages, err := s.messageRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}

	fileByMessage := map[string]*model.Attachment{}
	if len(ids) > 0 {
		attachments, err := s.attachmentRepo.ListByMessageIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, a := range attachments {
			if a.MessageID != nil {
				fileByMessage[*a.MessageID] = a
			}
		}
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, toMessageView(m, fileByMessage[m.ID]))
	}
	return views, nil
}

// CreateMessage はメッセージを作成する。本文とファイルの少なくとも一方が必要。
// 返信先が存在しない場合は参照を落として保存する。
func (s *Service) CreateMessage(ctx context.Context, author, body string, replyTo *string, file *storage.SavedFile) (*MessageView, error) {
	body = s.sanitizer.Sanitize(body)
	if body == "" && file == nil {
		return nil, model.NewInvalidRequestError("本文またはファイルが必要です")
	}

	replyTo, replyToAuthor, err := s.resolveReplyTo(ctx, replyTo)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	message := &model.Message{
		ID:         uuid.New().String(),
		AuthorName: author,
		Body:       body,
		ReplyTo:    replyTo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	var attachment *model.Attachment
	if file != nil {
		attachment = &model.Attachment{
			ID:           uuid.New().String(),
			MessageID:    &message.ID,
			URL:          file.URL,
			MimeType:     file.MimeType,
			OriginalName: file.OriginalName,
			SizeBytes:    file.SizeBytes,
			CreatedAt:    now,
		}
		if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
			return nil, err
		}
	}

	view := toMessageView(repository.MessageWithReplyAuthor{
		Message:       *message,
		ReplyToAuthor: replyToAuthor,
	}, attachment)

	s.broadcaster.Broadcast(realtime.Event{Type: realtime.EventNewMessage, Payload: view})
	return &view, nil
}

// UpdateMessage はメッセージ本文を更新する。著者本人のみが実行できる。
func (s *Service) UpdateMessage(ctx context.Context, requester, messageID, body string) (*MessageView, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, model.NewMessageNotFoundError(messageID)
	}
	if message.AuthorName != requester {
		return nil, model.NewForbiddenError()
	}

	body = s.sanitizer.Sanitize(body)
	if body == "" {
		return nil, model.NewInvalidRequestError("本文が必要です")
	}

	now := s.now().UTC()
	if err := s.messageRepo.UpdateBody(ctx, messageID, body, now); err != nil {
		return nil, err
	}
	message.Body = body
	message.UpdatedAt = now

	view, err := s.loadMessageView(ctx, message)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(realtime.Event{Type: realtime.EventUpdateMessage, Payload: *view})
	return view, nil
}

// DeleteMessage はメッセージを削除する。著者本人のみが実行できる。
func (s *Service) DeleteMessage(ctx context.Context, requester, messageID string) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return model.NewMessageNotFoundError(messageID)
	}
	if message.AuthorName != requester {
		return model.NewForbiddenError()
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}

	s.broadcaster.Broadcast(realtime.Event{
		Type:    realtime.EventDeleteMessage,
		Payload: realtime.DeletedPayload{ID: messageID},
	})
	return nil
}

func (s *Service) resolveReplyTo(ctx context.Context, replyTo *string) (*string, string, error) {
	if replyTo == nil || *replyTo == "" {
		return nil, "", nil
	}

	parent, err := s.messageRepo.FindByID(ctx, *replyTo)
	if err != nil {
		return nil, "", err
	}
	if parent == nil {
		return nil, "", nil
	}

	return replyTo, parent.AuthorName, nil
}

// loadMessageView は1件のメッセージのビューを返信先著者と添付付きで組み立てる。
func (s *Service) loadMessageView(ctx context.Context, message *model.Message) (*MessageView, error) {
	replyToAuthor := ""
	if message.ReplyTo != nil {
		parent, err := s.messageRepo.FindByID(ctx, *message.ReplyTo)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			replyToAuthor = parent.AuthorName
		}
	}

	var file *model.Attachment
	attachments, err := s.attachmentRepo.ListByMessageIDs(ctx, []string{message.ID})
	if err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		file = attachments[0]
	}

	view := toMessageView(repository.MessageWithReplyAuthor{
		Message:       *message,
		ReplyToAuthor: replyToAuthor,
	}, file)
	return &view, nil
}
