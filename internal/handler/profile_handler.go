package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kizuna/internal/middleware"
	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/profile"
	"github.com/hitoshi/kizuna/internal/storage"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// Get は指定ユーザーのプロフィールを写真履歴付きで返す。
	Get(ctx context.Context, username string) (*profile.View, error)
	// UpdatePhoto はプロフィール写真を差し替え、履歴へ追記する。
	UpdatePhoto(ctx context.Context, username string, file *storage.SavedFile) (*profile.View, error)
	// UpdateSettings はユーザー名・パスワード・bioを変更する。
	UpdateSettings(ctx context.Context, username string, update profile.SettingsUpdate) (*profile.SettingsResult, error)
}

// ProfileHandler はプロフィールのHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
	store   storage.Store
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface, store storage.Store) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		store:   store,
	}
}

// updateSettingsRequest は設定変更リクエストのボディ。
type updateSettingsRequest struct {
	CurrentPassword string  `json:"current_password"`
	NewUsername     *string `json:"new_username"`
	NewPassword     *string `json:"new_password"`
	Bio             *string `json:"bio"`
}

// GetProfile はプロフィールを取得する。
// GET /api/profile/:username
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdatePhoto はプロフィール写真の差し替えを処理する。
// multipart/form-dataでファイル（photo）を受け取る。
// POST /api/profile/photo
func (h *ProfileHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	if err := r.ParseMultipartForm(multipartParseMemory); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("multipartフォームの解析に失敗しました"))
		return
	}

	fhs := r.MultipartForm.File["photo"]
	if len(fhs) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("photoフィールドにファイルが必要です"))
		return
	}

	saved, err := saveUploadedFile(r.Context(), h.store, fhs[0])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.service.UpdatePhoto(r.Context(), username, saved)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdateSettings は設定変更を処理する。すべての変更に現在のパスワードの
// 再確認を要求する。ユーザー名を変更した場合、クライアントはレスポンスの
// usernameで新しいトークンを取得し直す必要がある。
// PUT /api/profile/settings
func (h *ProfileHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	if req.CurrentPassword == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("現在のパスワードが必要です"))
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), username, profile.SettingsUpdate{
		CurrentPassword: req.CurrentPassword,
		NewUsername:     req.NewUsername,
		NewPassword:     req.NewPassword,
		Bio:             req.Bio,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
