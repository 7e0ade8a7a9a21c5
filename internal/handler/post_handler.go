package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kizuna/internal/feed"
	"github.com/hitoshi/kizuna/internal/middleware"
	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/storage"
)

// multipartParseMemory はmultipartフォーム解析時にメモリへ保持する上限。
// これを超えた分は一時ファイルに書かれる。
const multipartParseMemory = 8 << 20

// FeedServiceInterface は投稿ハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// ListPosts は全投稿をネストビューで新しい順に返す。
	ListPosts(ctx context.Context) ([]feed.PostView, error)
	// CreatePost は投稿を作成する。
	CreatePost(ctx context.Context, author, body string, postType model.PostType, files []storage.SavedFile) (*feed.PostView, error)
	// UpdatePost は投稿本文を更新する。
	UpdatePost(ctx context.Context, requester, postID, body string) (*feed.PostView, error)
	// DeletePost は投稿を削除する。
	DeletePost(ctx context.Context, requester, postID string) error
	// ConfirmDua はドゥア投稿に祈りの確認を送信する。
	ConfirmDua(ctx context.Context, requester, postID string) error
	// ThankConfirmation は確認への感謝を記録する。
	ThankConfirmation(ctx context.Context, requester, confirmationID string) error
}

// PostHandler は投稿とドゥアのHTTPハンドラー。
type PostHandler struct {
	service FeedServiceInterface
	store   storage.Store
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service FeedServiceInterface, store storage.Store) *PostHandler {
	return &PostHandler{
		service: service,
		store:   store,
	}
}

// updatePostRequest は投稿更新リクエストのボディ。
type updatePostRequest struct {
	Text string `json:"text"`
}

// ListPosts は投稿一覧を取得する。
// GET /api/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListPosts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// CreatePost は投稿作成を処理する。multipart/form-dataで本文（text）、
// 種別（type）、添付ファイル（files）を受け取る。
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := r.ParseMultipartForm(multipartParseMemory); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("multipartフォームの解析に失敗しました"))
		return
	}

	postType := model.PostType(r.FormValue("type"))
	if postType == "" {
		postType = model.PostTypeNormal
	}

	var files []storage.SavedFile
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["files"] {
			saved, err := saveUploadedFile(r.Context(), h.store, fh)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			files = append(files, *saved)
		}
	}

	view, err := h.service.CreatePost(r.Context(), username, r.FormValue("text"), postType, files)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// UpdatePost は投稿本文の更新を処理する。
// PUT /api/posts/:id
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	view, err := h.service.UpdatePost(r.Context(), username, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// DeletePost は投稿削除を処理する。
// DELETE /api/posts/:id
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeletePost(r.Context(), username, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfirmDua は祈りの確認送信を処理する。
// POST /api/dua/confirm/:postId
func (h *PostHandler) ConfirmDua(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.ConfirmDua(r.Context(), username, chi.URLParam(r, "postId")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

// ThankConfirmation は確認への感謝送信を処理する。
// POST /api/dua/thank/:confId
func (h *PostHandler) ThankConfirmation(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.ThankConfirmation(r.Context(), username, chi.URLParam(r, "confId")); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "thanked"})
}
