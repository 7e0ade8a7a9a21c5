package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/kizuna/internal/middleware"
	"github.com/hitoshi/kizuna/internal/model"
)

// UnreadServiceInterface は未読ハンドラーが必要とするサービスインターフェース。
type UnreadServiceInterface interface {
	// Counts はチャット・フィード両方の未読件数を返す。
	Counts(ctx context.Context, username string) (*model.UnreadCounts, error)
	// MarkRead は指定カテゴリの既読チェックポイントを現在時刻へ進める。
	MarkRead(ctx context.Context, username string, category model.ReadCategory) error
}

// UnreadHandler は未読件数のHTTPハンドラー。
type UnreadHandler struct {
	service UnreadServiceInterface
}

// NewUnreadHandler はUnreadHandlerを生成する。
func NewUnreadHandler(service UnreadServiceInterface) *UnreadHandler {
	return &UnreadHandler{service: service}
}

// unreadCountsResponse は未読件数のレスポンス。
type unreadCountsResponse struct {
	UnreadChat int `json:"unreadChat"`
	UnreadFeed int `json:"unreadFeed"`
}

// markReadRequest は既読化リクエストのボディ。
type markReadRequest struct {
	Type string `json:"type"`
}

// GetCounts は未読件数を取得する。
// GET /api/unread-counts
func (h *UnreadHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	counts, err := h.service.Counts(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, unreadCountsResponse{
		UnreadChat: counts.Chat,
		UnreadFeed: counts.Feed,
	})
}

// MarkRead は既読化を処理する。
// POST /api/mark-read
func (h *UnreadHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if err := h.service.MarkRead(r.Context(), username, model.ReadCategory(req.Type)); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
