// Package feed は投稿・ドゥア・コメントのドメインサービスを提供する。
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/realtime"
	"github.com/hitoshi/kizuna/internal/repository"
	"github.com/hitoshi/kizuna/internal/security"
	"github.com/hitoshi/kizuna/internal/storage"
)

// Service は投稿に関するビジネスロジックを提供する。
// すべての変更操作は成功時に必ず1つのイベントをブロードキャストする。
type Service struct {
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	confirmationRepo repository.ConfirmationRepository
	attachmentRepo   repository.AttachmentRepository
	sanitizer        security.ContentSanitizerService
	broadcaster      realtime.Broadcaster
	now              func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	confirmationRepo repository.ConfirmationRepository,
	attachmentRepo repository.AttachmentRepository,
	sanitizer security.ContentSanitizerService,
	broadcaster realtime.Broadcaster,
) *Service {
	return &Service{
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		confirmationRepo: confirmationRepo,
		attachmentRepo:   attachmentRepo,
		sanitizer:        sanitizer,
		broadcaster:      broadcaster,
		now:              time.Now,
	}
}

// ListPosts は全投稿を添付・コメント・確認をネストした形でcreated_at降順で返す。
// 確認はドゥア投稿にのみ付与され、通常投稿ではJSONに現れない。
func (s *Service) ListPosts(ctx context.Context) ([]PostView, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	attachments, err := s.attachmentRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	confirmations, err := s.confirmationRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	filesByPost := make(map[string][]FileView)
	for _, a := range attachments {
		if a.PostID == nil {
			continue
		}
		filesByPost[*a.PostID] = append(filesByPost[*a.PostID], toFileView(a))
	}

	commentsByPost := make(map[string][]CommentView)
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], toCommentView(c))
	}

	confirmationsByPost := make(map[string][]ConfirmationView)
	for _, c := range confirmations {
		confirmationsByPost[c.PostID] = append(confirmationsByPost[c.PostID], toConfirmationView(c))
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = assemblePostView(p, filesByPost[p.ID], commentsByPost[p.ID], confirmationsByPost[p.ID])
	}

	return views, nil
}

// CreatePost は新しい投稿を作成し、newPostイベントをブロードキャストする。
// 本文はサニタイズされ、本文と添付の両方が空の投稿は拒否される。
func (s *Service) CreatePost(ctx context.Context, author, body string, postType model.PostType, files []storage.SavedFile) (*PostView, error) {
	if !postType.Valid() {
		return nil, model.NewInvalidRequestError(fmt.Sprintf("不明な投稿種別: %s", postType))
	}

	body = s.sanitizer.Sanitize(body)
	if body == "" && len(files) == 0 {
		return nil, model.NewInvalidRequestError("本文または添付ファイルが必要です")
	}

	now := s.now().UTC()
	post := &model.Post{
		ID:         uuid.New().String(),
		AuthorName: author,
		Body:       body,
		Type:       postType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	fileViews := make([]FileView, 0, len(files))
	for i, f := range files {
		attachment := &model.Attachment{
			ID:           uuid.New().String(),
			PostID:       &post.ID,
			URL:          f.URL,
			MimeType:     f.MimeType,
			OriginalName: f.OriginalName,
			SizeBytes:    f.SizeBytes,
			Position:     i,
			CreatedAt:    now,
		}
		if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
			return nil, err
		}
		fileViews = append(fileViews, toFileView(attachment))
	}

	view := assemblePostView(post, fileViews, nil, nil)
	s.broadcaster.Broadcast(realtime.Event{Type: realtime.EventNewPost, Payload: view})

	return &view, nil
}

// UpdatePost は投稿本文を更新し、newPostイベントをブロードキャストする。
// 著者本人のみが実行できる。
func (s *Service) UpdatePost(ctx context.Context, requester, postID, body string) (*PostView, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}
	if post.AuthorName != requester {
		return nil, model.NewForbiddenError()
	}

	body = s.sanitizer.Sanitize(body)
	if body == "" {
		return nil, model.NewInvalidRequestError("本文が必要です")
	}

	now := s.now().UTC()
	if err := s.postRepo.UpdateBody(ctx, postID, body, now); err != nil {
		return nil, err
	}
	post.Body = body
	post.UpdatedAt = now

	view, err := s.loadPostView(ctx, post)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast(realtime.Event{Type: realtime.EventNewPost, Payload: *view})

	return view, nil
}

// DeletePost は投稿を削除し、deletePostイベントをブロードキャストする。
// 著者本人のみが実行できる。
func (s *Service) DeletePost(ctx context.Context, requester, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}
	if post.AuthorName != requester {
		return model.NewForbiddenError()
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.broadcaster.Broadcast(realtime.Event{
		Type:    realtime.EventDeletePost,
		Payload: realtime.DeletedPayload{ID: postID},
	})

	return nil
}

// ConfirmDua は「祈りました」の確認を登録し、duaUpdateイベントをブロードキャストする。
// 同一ユーザーによる重複確認はALREADY_CONFIRMEDを返す。事前チェックを
// すり抜けた並行リクエストもUNIQUE制約により1件に収束する。
func (s *Service) ConfirmDua(ctx context.Context, requester, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}
	if post.Type != model.PostTypeDua {
		return model.NewNotDuaPostError()
	}

	existing, err := s.confirmationRepo.FindByPostAndUser(ctx, postID, requester)
	if err != nil {
		return err
	}
	if existing != nil {
		return model.NewAlreadyConfirmedError()
	}

	confirmation := &model.DuaConfirmation{
		ID:        uuid.New().String(),
		PostID:    postID,
		Username:  requester,
		IsThanked: false,
		CreatedAt: s.now().UTC(),
	}

	inserted, err := s.confirmationRepo.Create(ctx, confirmation)
	if err != nil {
		return err
	}
	if !inserted {
		return model.NewAlreadyConfirmedError()
	}

	s.broadcaster.Broadcast(realtime.Event{
		Type: realtime.EventDuaUpdate,
		Payload: realtime.DuaUpdatePayload{
			PostID: postID,
			Type:   realtime.DuaUpdateConfirmation,
			User:   requester,
		},
	})

	return nil
}

// ThankConfirmation は確認に感謝を記録し、duaUpdateイベントをブロードキャストする。
// ドゥア投稿の著者本人のみが実行できる。
func (s *Service) ThankConfirmation(ctx context.Context, requester, confirmationID string) error {
	confirmation, err := s.confirmationRepo.FindByID(ctx, confirmationID)
	if err != nil {
		return err
	}
	if confirmation == nil {
		return model.NewConfirmationNotFoundError(confirmationID)
	}

	post, err := s.postRepo.FindByID(ctx, confirmation.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return model.NewPostNotFoundError(confirmation.PostID)
	}
	if post.AuthorName != requester {
		return model.NewForbiddenError()
	}

	if err := s.confirmationRepo.SetThanked(ctx, confirmationID); err != nil {
		return err
	}

	s.broadcaster.Broadcast(realtime.Event{
		Type: realtime.EventDuaUpdate,
		Payload: realtime.DuaUpdatePayload{
			PostID: post.ID,
			Type:   realtime.DuaUpdateThank,
			User:   confirmation.Username,
		},
	})

	return nil
}

// loadPostView は1件の投稿のネストビューを組み立てる。
func (s *Service) loadPostView(ctx context.Context, post *model.Post) (*PostView, error) {
	postIDs := []string{post.ID}

	attachments, err := s.attachmentRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	confirmations, err := s.confirmationRepo.ListByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	fileViews := make([]FileView, 0, len(attachments))
	for _, a := range attachments {
		fileViews = append(fileViews, toFileView(a))
	}
	commentViews := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		commentViews = append(commentViews, toCommentView(c))
	}
	confirmationViews := make([]ConfirmationView, 0, len(confirmations))
	for _, c := range confirmations {
		confirmationViews = append(confirmationViews, toConfirmationView(c))
	}

	view := assemblePostView(post, fileViews, commentViews, confirmationViews)
	return &view, nil
}
