package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kizuna/internal/feed"
	"github.com/hitoshi/kizuna/internal/middleware"
	"github.com/hitoshi/kizuna/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// CreateComment は投稿へのコメントを作成する。
	CreateComment(ctx context.Context, author, postID, body string, replyTo *string) (*feed.CommentView, error)
	// UpdateComment はコメント本文を更新する。
	UpdateComment(ctx context.Context, requester, commentID, body string) (*feed.CommentView, error)
	// DeleteComment はコメントを削除する。
	DeleteComment(ctx context.Context, requester, commentID string) error
}

// CommentHandler はコメントのHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// createCommentRequest はコメント作成リクエストのボディ。
type createCommentRequest struct {
	Text    string  `json:"text"`
	ReplyTo *string `json:"reply_to"`
}

// updateCommentRequest はコメント更新リクエストのボディ。
type updateCommentRequest struct {
	Text string `json:"text"`
}

// CreateComment はコメント作成を処理する。
// POST /api/posts/:postId/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	view, err := h.service.CreateComment(r.Context(), username, chi.URLParam(r, "postId"), req.Text, req.ReplyTo)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// UpdateComment はコメント本文の更新を処理する。
// PUT /api/comments/:id
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	view, err := h.service.UpdateComment(r.Context(), username, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// DeleteComment はコメント削除を処理する。
// DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteComment(r.Context(), username, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
