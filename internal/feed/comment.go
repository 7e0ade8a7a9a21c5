package feed

import (
	"context"

	"github.com/google/uuid"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/realtime"
	"github.com/hitoshi/kizuna/internal/repository"
)

// CreateComment は投稿へのコメントを作成する。
// 返信先（replyTo）が同じ投稿の既存コメントでない場合は参照を落として保存する
// （参照整合性はベストエフォート）。変更後の投稿全体をnewPostイベントとして
// ブロードキャストし、受信側は投稿を丸ごと差し替える。
func (s *Service) CreateComment(ctx context.Context, author, postID, body string, replyTo *string) (*CommentView, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	body = s.sanitizer.Sanitize(body)
	if body == "" {
		return nil, model.NewInvalidRequestError("コメント本文が必要です")
	}

	replyTo, replyToAuthor, err := s.resolveReplyTo(ctx, postID, replyTo)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	comment := &model.Comment{
		ID:         uuid.New().String(),
		PostID:     postID,
		AuthorName: author,
		Body:       body,
		ReplyTo:    replyTo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.broadcastPost(ctx, post); err != nil {
		return nil, err
	}

	view := toCommentView(repository.CommentWithReplyAuthor{
		Comment:       *comment,
		ReplyToAuthor: replyToAuthor,
	})
	return &view, nil
}

// UpdateComment はコメント本文を更新する。著者本人のみが実行できる。
func (s *Service) UpdateComment(ctx context.Context, requester, commentID, body string) (*CommentView, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, model.NewCommentNotFoundError(commentID)
	}
	if comment.AuthorName != requester {
		return nil, model.NewForbiddenError()
	}

	body = s.sanitizer.Sanitize(body)
	if body == "" {
		return nil, model.NewInvalidRequestError("コメント本文が必要です")
	}

	now := s.now().UTC()
	if err := s.commentRepo.UpdateBody(ctx, commentID, body, now); err != nil {
		return nil, err
	}
	comment.Body = body
	comment.UpdatedAt = now

	post, err := s.postRepo.FindByID(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}
	if post != nil {
		if err := s.broadcastPost(ctx, post); err != nil {
			return nil, err
		}
	}

	view := toCommentView(repository.CommentWithReplyAuthor{Comment: *comment})
	return &view, nil
}

// DeleteComment はコメントを削除する。著者本人のみが実行できる。
func (s *Service) DeleteComment(ctx context.Context, requester, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return model.NewCommentNotFoundError(commentID)
	}
	if comment.AuthorName != requester {
		return model.NewForbiddenError()
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	post, err := s.postRepo.FindByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	if post != nil {
		if err := s.broadcastPost(ctx, post); err != nil {
			return err
		}
	}

	return nil
}

// resolveReplyTo は返信先コメントの存在と投稿一致を検証し、著者名を解決する。
// 検証に通らない参照はnilに落とす。
func (s *Service) resolveReplyTo(ctx context.Context, postID string, replyTo *string) (*string, string, error) {
	if replyTo == nil || *replyTo == "" {
		return nil, "", nil
	}

	parent, err := s.commentRepo.FindByID(ctx, *replyTo)
	if err != nil {
		return nil, "", err
	}
	if parent == nil || parent.PostID != postID {
		return nil, "", nil
	}

	return replyTo, parent.AuthorName, nil
}

// broadcastPost は投稿のネストビューを再構築してnewPostイベントを発行する。
func (s *Service) broadcastPost(ctx context.Context, post *model.Post) error {
	view, err := s.loadPostView(ctx, post)
	if err != nil {
		return err
	}
	s.broadcaster.Broadcast(realtime.Event{Type: realtime.EventNewPost, Payload: *view})
	return nil
}
