package feed

import (
	"context"
	"testing"
	"time"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/realtime"
	"github.com/hitoshi/kizuna/internal/repository"
	"github.com/hitoshi/kizuna/internal/storage"
)

// --- モック ---

type mockPostRepo struct {
	findByIDFn   func(ctx context.Context, id string) (*model.Post, error)
	listAllFn    func(ctx context.Context) ([]*model.Post, error)
	createFn     func(ctx context.Context, post *model.Post) error
	updateBodyFn func(ctx context.Context, id, body string, updatedAt time.Time) error
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockPostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}
func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}
func (m *mockPostRepo) UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error {
	if m.updateBodyFn != nil {
		return m.updateBodyFn(ctx, id, body, updatedAt)
	}
	return nil
}
func (m *mockPostRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
func (m *mockPostRepo) CountUnread(ctx context.Context, author string, since time.Time) (int, error) {
	return 0, nil
}

type mockCommentRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.Comment, error)
	listByPostIDsFn func(ctx context.Context, postIDs []string) ([]repository.CommentWithReplyAuthor, error)
	createFn        func(ctx context.Context, comment *model.Comment) error
	deleteFn        func(ctx context.Context, id string) error
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockCommentRepo) ListByPostIDs(ctx context.Context, postIDs []string) ([]repository.CommentWithReplyAuthor, error) {
	if m.listByPostIDsFn != nil {
		return m.listByPostIDsFn(ctx, postIDs)
	}
	return nil, nil
}
func (m *mockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}
func (m *mockCommentRepo) UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error {
	return nil
}
func (m *mockCommentRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockConfirmationRepo struct {
	findByIDFn          func(ctx context.Context, id string) (*model.DuaConfirmation, error)
	findByPostAndUserFn func(ctx context.Context, postID, username string) (*model.DuaConfirmation, error)
	createFn            func(ctx context.Context, confirmation *model.DuaConfirmation) (bool, error)
	setThankedFn        func(ctx context.Context, id string) error
}

func (m *mockConfirmationRepo) FindByID(ctx context.Context, id string) (*model.DuaConfirmation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockConfirmationRepo) FindByPostAndUser(ctx context.Context, postID, username string) (*model.DuaConfirmation, error) {
	if m.findByPostAndUserFn != nil {
		return m.findByPostAndUserFn(ctx, postID, username)
	}
	return nil, nil
}
func (m *mockConfirmationRepo) ListByPostIDs(ctx context.Context, postIDs []string) ([]*model.DuaConfirmation, error) {
	return nil, nil
}
func (m *mockConfirmationRepo) Create(ctx context.Context, confirmation *model.DuaConfirmation) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, confirmation)
	}
	return true, nil
}
func (m *mockConfirmationRepo) SetThanked(ctx context.Context, id string) error {
	if m.setThankedFn != nil {
		return m.setThankedFn(ctx, id)
	}
	return nil
}

type mockAttachmentRepo struct {
	createFn func(ctx context.Context, attachment *model.Attachment) error
}

func (m *mockAttachmentRepo) Create(ctx context.Context, attachment *model.Attachment) error {
	if m.createFn != nil {
		return m.createFn(ctx, attachment)
	}
	return nil
}
func (m *mockAttachmentRepo) ListByPostIDs(ctx context.Context, postIDs []string) ([]*model.Attachment, error) {
	return nil, nil
}
func (m *mockAttachmentRepo) ListByMessageIDs(ctx context.Context, messageIDs []string) ([]*model.Attachment, error) {
	return nil, nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(content string) string { return content }

// mockBroadcaster は発行されたイベントを記録する。
type mockBroadcaster struct {
	events []realtime.Event
}

func (m *mockBroadcaster) Broadcast(event realtime.Event) {
	m.events = append(m.events, event)
}

func newTestService(posts *mockPostRepo, comments *mockCommentRepo, confirmations *mockConfirmationRepo, attachments *mockAttachmentRepo, b *mockBroadcaster) *Service {
	svc := NewService(posts, comments, confirmations, attachments, passthroughSanitizer{}, b)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

// --- テスト ---

func TestCreatePost_BroadcastsExactlyOneEvent(t *testing.T) {
	b := &mockBroadcaster{}
	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, b)

	view, err := svc.CreatePost(context.Background(), "yusuf", "assalamu alaikum", model.PostTypeNormal, nil)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if view.Author != "yusuf" {
		t.Errorf("view.Author = %v, want %v", view.Author, "yusuf")
	}
	if len(b.events) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(b.events))
	}
	if b.events[0].Type != realtime.EventNewPost {
		t.Errorf("event type = %v, want %v", b.events[0].Type, realtime.EventNewPost)
	}
}

func TestCreatePost_EmptyBodyAndNoFiles(t *testing.T) {
	b := &mockBroadcaster{}
	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, b)

	_, err := svc.CreatePost(context.Background(), "yusuf", "   ", model.PostTypeNormal, nil)
	if err == nil {
		t.Fatal("CreatePost() error = nil, want error")
	}
	if len(b.events) != 0 {
		t.Errorf("broadcast count = %d, want 0", len(b.events))
	}
}

func TestCreatePost_FileOnlyIsAllowed(t *testing.T) {
	var created []*model.Attachment
	attachments := &mockAttachmentRepo{
		createFn: func(ctx context.Context, a *model.Attachment) error {
			created = append(created, a)
			return nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockConfirmationRepo{}, attachments, b)

	files := []storage.SavedFile{
		{URL: "/uploads/a.jpg", MimeType: "image/jpeg", OriginalName: "a.jpg", SizeBytes: 100},
		{URL: "/uploads/b.jpg", MimeType: "image/jpeg", OriginalName: "b.jpg", SizeBytes: 200},
	}
	view, err := svc.CreatePost(context.Background(), "maryam", "", model.PostTypeNormal, files)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if len(view.Files) != 2 {
		t.Fatalf("len(view.Files) = %d, want 2", len(view.Files))
	}
	// 添付の並び順が保存されること
	for i, a := range created {
		if a.Position != i {
			t.Errorf("attachment[%d].Position = %d, want %d", i, a.Position, i)
		}
	}
}

func TestCreatePost_InvalidType(t *testing.T) {
	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, &mockBroadcaster{})

	_, err := svc.CreatePost(context.Background(), "yusuf", "text", model.PostType("story"), nil)
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeInvalidRequest {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeInvalidRequest)
	}
}

func TestCreatePost_NormalPostHasNoConfirmations(t *testing.T) {
	svc := newTestService(&mockPostRepo{}, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, &mockBroadcaster{})

	view, err := svc.CreatePost(context.Background(), "yusuf", "normal post", model.PostTypeNormal, nil)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if view.Confirmations != nil {
		t.Errorf("view.Confirmations = %v, want nil", view.Confirmations)
	}

	dua, err := svc.CreatePost(context.Background(), "yusuf", "dua post", model.PostTypeDua, nil)
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if dua.Confirmations == nil {
		t.Error("dua view.Confirmations = nil, want empty slice")
	}
}

func TestUpdatePost_OnlyAuthor(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Body: "old", Type: model.PostTypeNormal}, nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(posts, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, b)

	_, err := svc.UpdatePost(context.Background(), "maryam", "p1", "hacked")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeForbidden)
	}
	if len(b.events) != 0 {
		t.Errorf("broadcast count = %d, want 0", len(b.events))
	}
}

func TestDeletePost_NotFound(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return nil, nil
		},
	}
	svc := newTestService(posts, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, &mockBroadcaster{})

	err := svc.DeletePost(context.Background(), "yusuf", "missing")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodePostNotFound {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodePostNotFound)
	}
}

func TestDeletePost_BroadcastsDeleteEvent(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf"}, nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(posts, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, b)

	if err := svc.DeletePost(context.Background(), "yusuf", "p1"); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}

	if len(b.events) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(b.events))
	}
	if b.events[0].Type != realtime.EventDeletePost {
		t.Errorf("event type = %v, want %v", b.events[0].Type, realtime.EventDeletePost)
	}
	payload, ok := b.events[0].Payload.(realtime.DeletedPayload)
	if !ok {
		t.Fatalf("payload type = %T, want realtime.DeletedPayload", b.events[0].Payload)
	}
	if payload.ID != "p1" {
		t.Errorf("payload.ID = %v, want %v", payload.ID, "p1")
	}
}

func TestConfirmDua_RejectsNonDuaPost(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Type: model.PostTypeNormal}, nil
		},
	}
	svc := newTestService(posts, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, &mockBroadcaster{})

	err := svc.ConfirmDua(context.Background(), "maryam", "p1")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeNotDuaPost {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeNotDuaPost)
	}
}

func TestConfirmDua_DuplicateReturnsAlreadyConfirmed(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Type: model.PostTypeDua}, nil
		},
	}
	confirmations := &mockConfirmationRepo{
		findByPostAndUserFn: func(ctx context.Context, postID, username string) (*model.DuaConfirmation, error) {
			return &model.DuaConfirmation{ID: "c1", PostID: postID, Username: username}, nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(posts, &mockCommentRepo{}, confirmations, &mockAttachmentRepo{}, b)

	err := svc.ConfirmDua(context.Background(), "maryam", "p1")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeAlreadyConfirmed {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeAlreadyConfirmed)
	}
	if len(b.events) != 0 {
		t.Errorf("broadcast count = %d, want 0", len(b.events))
	}
}

func TestConfirmDua_ConcurrentDuplicateCollapsesToOne(t *testing.T) {
	// 事前チェックをすり抜けた並行リクエストはUNIQUE制約で弾かれ、
	// リポジトリがinserted=falseを返す
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Type: model.PostTypeDua}, nil
		},
	}
	confirmations := &mockConfirmationRepo{
		createFn: func(ctx context.Context, c *model.DuaConfirmation) (bool, error) {
			return false, nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(posts, &mockCommentRepo{}, confirmations, &mockAttachmentRepo{}, b)

	err := svc.ConfirmDua(context.Background(), "maryam", "p1")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeAlreadyConfirmed {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeAlreadyConfirmed)
	}
	if len(b.events) != 0 {
		t.Errorf("broadcast count = %d, want 0", len(b.events))
	}
}

func TestConfirmDua_BroadcastsConfirmation(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Type: model.PostTypeDua}, nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(posts, &mockCommentRepo{}, &mockConfirmationRepo{}, &mockAttachmentRepo{}, b)

	if err := svc.ConfirmDua(context.Background(), "maryam", "p1"); err != nil {
		t.Fatalf("ConfirmDua() error = %v", err)
	}

	if len(b.events) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(b.events))
	}
	payload, ok := b.events[0].Payload.(realtime.DuaUpdatePayload)
	if !ok {
		t.Fatalf("payload type = %T, want realtime.DuaUpdatePayload", b.events[0].Payload)
	}
	if payload.Type != realtime.DuaUpdateConfirmation {
		t.Errorf("payload.Type = %v, want %v", payload.Type, realtime.DuaUpdateConfirmation)
	}
	if payload.User != "maryam" {
		t.Errorf("payload.User = %v, want %v", payload.User, "maryam")
	}
}

func TestThankConfirmation_OnlyPostAuthor(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Type: model.PostTypeDua}, nil
		},
	}
	confirmations := &mockConfirmationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.DuaConfirmation, error) {
			return &model.DuaConfirmation{ID: id, PostID: "p1", Username: "maryam"}, nil
		},
	}
	svc := newTestService(posts, &mockCommentRepo{}, confirmations, &mockAttachmentRepo{}, &mockBroadcaster{})

	// 確認を送ったユーザー自身でも、投稿著者でなければ感謝できない
	err := svc.ThankConfirmation(context.Background(), "maryam", "c1")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeForbidden)
	}
}

func TestThankConfirmation_BroadcastsThankWithConfirmer(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: "p1", AuthorName: "yusuf", Type: model.PostTypeDua}, nil
		},
	}
	thanked := false
	confirmations := &mockConfirmationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.DuaConfirmation, error) {
			return &model.DuaConfirmation{ID: id, PostID: "p1", Username: "maryam"}, nil
		},
		setThankedFn: func(ctx context.Context, id string) error {
			thanked = true
			return nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(posts, &mockCommentRepo{}, confirmations, &mockAttachmentRepo{}, b)

	if err := svc.ThankConfirmation(context.Background(), "yusuf", "c1"); err != nil {
		t.Fatalf("ThankConfirmation() error = %v", err)
	}

	if !thanked {
		t.Error("SetThanked was not called")
	}
	if len(b.events) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(b.events))
	}
	payload := b.events[0].Payload.(realtime.DuaUpdatePayload)
	if payload.Type != realtime.DuaUpdateThank {
		t.Errorf("payload.Type = %v, want %v", payload.Type, realtime.DuaUpdateThank)
	}
	if payload.User != "maryam" {
		t.Errorf("payload.User = %v, want %v", payload.User, "maryam")
	}
}

func TestCreateComment_DropsReplyToFromOtherPost(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Type: model.PostTypeNormal}, nil
		},
	}
	comments := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			// 別の投稿に属するコメント
			return &model.Comment{ID: id, PostID: "other-post", AuthorName: "maryam"}, nil
		},
	}
	svc := newTestService(posts, comments, &mockConfirmationRepo{}, &mockAttachmentRepo{}, &mockBroadcaster{})

	replyTo := "c-other"
	view, err := svc.CreateComment(context.Background(), "ali", "p1", "nice", &replyTo)
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if view.ReplyTo != nil {
		t.Errorf("view.ReplyTo = %v, want nil", *view.ReplyTo)
	}
}

func TestCreateComment_ResolvesReplyAuthor(t *testing.T) {
	posts := &mockPostRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Post, error) {
			return &model.Post{ID: id, AuthorName: "yusuf", Type: model.PostTypeNormal}, nil
		},
	}
	comments := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: id, PostID: "p1", AuthorName: "maryam"}, nil
		},
	}
	b := &mockBroadcaster{}
	svc := newTestService(posts, comments, &mockConfirmationRepo{}, &mockAttachmentRepo{}, b)

	replyTo := "c1"
	view, err := svc.CreateComment(context.Background(), "ali", "p1", "agreed", &replyTo)
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if view.ReplyToAuthor != "maryam" {
		t.Errorf("view.ReplyToAuthor = %v, want %v", view.ReplyToAuthor, "maryam")
	}
	if len(b.events) != 1 {
		t.Errorf("broadcast count = %d, want 1", len(b.events))
	}
}

func TestDeleteComment_OnlyAuthor(t *testing.T) {
	comments := &mockCommentRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Comment, error) {
			return &model.Comment{ID: id, PostID: "p1", AuthorName: "maryam"}, nil
		},
	}
	svc := newTestService(&mockPostRepo{}, comments, &mockConfirmationRepo{}, &mockAttachmentRepo{}, &mockBroadcaster{})

	err := svc.DeleteComment(context.Background(), "ali", "c1")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("code = %v, want %v", apiErr.Code, model.ErrCodeForbidden)
	}
}

func TestListPosts_NestsCommentsAndConfirmations(t *testing.T) {
	posts := &mockPostRepo{
		listAllFn: func(ctx context.Context) ([]*model.Post, error) {
			return []*model.Post{
				{ID: "p2", AuthorName: "maryam", Type: model.PostTypeDua, Body: "dua"},
				{ID: "p1", AuthorName: "yusuf", Type: model.PostTypeNormal, Body: "hello"},
			}, nil
		},
	}
	comments := &mockCommentRepo{
		listByPostIDsFn: func(ctx context.Context, postIDs []string) ([]repository.CommentWithReplyAuthor, error) {
			return []repository.CommentWithReplyAuthor{
				{Comment: model.Comment{ID: "c1", PostID: "p1", AuthorName: "ali", Body: "nice"}},
			}, nil
		},
	}
	confirmations := &mockConfirmationRepo{}
	svc := newTestService(posts, comments, confirmations, &mockAttachmentRepo{}, &mockBroadcaster{})

	views, err := svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}

	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	// ドゥア投稿は空でもconfirmationsを持つ
	if views[0].Confirmations == nil {
		t.Error("dua post Confirmations = nil, want empty slice")
	}
	// 通常投稿はconfirmationsを持たない
	if views[1].Confirmations != nil {
		t.Error("normal post Confirmations should be nil")
	}
	if len(views[1].Comments) != 1 {
		t.Errorf("len(views[1].Comments) = %d, want 1", len(views[1].Comments))
	}
	// コメントなしの投稿も空配列を返す
	if views[0].Comments == nil {
		t.Error("views[0].Comments = nil, want empty slice")
	}
}
