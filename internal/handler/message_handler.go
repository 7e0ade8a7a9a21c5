package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kizuna/internal/chat"
	"github.com/hitoshi/kizuna/internal/middleware"
	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/storage"
)

// ChatServiceInterface はメッセージハンドラーが必要とするサービスインターフェース。
type ChatServiceInterface interface {
	// ListMessages は全メッセージを古い順に返す。
	ListMessages(ctx context.Context) ([]chat.MessageView, error)
	// CreateMessage はメッセージを作成する。
	CreateMessage(ctx context.Context, author, body string, replyTo *string, file *storage.SavedFile) (*chat.MessageView, error)
	// UpdateMessage はメッセージ本文を更新する。
	UpdateMessage(ctx context.Context, requester, messageID, body string) (*chat.MessageView, error)
	// DeleteMessage はメッセージを削除する。
	DeleteMessage(ctx context.Context, requester, messageID string) error
}

// MessageHandler はチャットメッセージのHTTPハンドラー。
type MessageHandler struct {
	service ChatServiceInterface
	store   storage.Store
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(service ChatServiceInterface, store storage.Store) *MessageHandler {
	return &MessageHandler{
		service: service,
		store:   store,
	}
}

// updateMessageRequest はメッセージ更新リクエストのボディ。
type updateMessageRequest struct {
	Text string `json:"text"`
}

// ListMessages はメッセージ一覧を取得する。
// GET /api/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListMessages(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// CreateMessage はメッセージ作成を処理する。multipart/form-dataで本文（text）、
// 返信先（reply_to）、添付ファイル（file、最大1件）を受け取る。
// POST /api/messages
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := r.ParseMultipartForm(multipartParseMemory); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("multipartフォームの解析に失敗しました"))
		return
	}

	var replyTo *string
	if v := r.FormValue("reply_to"); v != "" {
		replyTo = &v
	}

	var file *storage.SavedFile
	if r.MultipartForm != nil {
		if fhs := r.MultipartForm.File["file"]; len(fhs) > 0 {
			saved, err := saveUploadedFile(r.Context(), h.store, fhs[0])
			if err != nil {
				handleServiceError(w, err)
				return
			}
			file = saved
		}
	}

	view, err := h.service.CreateMessage(r.Context(), username, r.FormValue("text"), replyTo, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// UpdateMessage はメッセージ本文の更新を処理する。
// PUT /api/messages/:id
func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	view, err := h.service.UpdateMessage(r.Context(), username, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// DeleteMessage はメッセージ削除を処理する。
// DELETE /api/messages/:id
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := h.service.DeleteMessage(r.Context(), username, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
