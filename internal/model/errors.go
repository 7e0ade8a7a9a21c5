// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodePostNotFound         = "POST_NOT_FOUND"
	ErrCodeMessageNotFound      = "MESSAGE_NOT_FOUND"
	ErrCodeCommentNotFound      = "COMMENT_NOT_FOUND"
	ErrCodeConfirmationNotFound = "CONFIRMATION_NOT_FOUND"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeAlreadyConfirmed     = "ALREADY_CONFIRMED"
	ErrCodeNotDuaPost           = "NOT_DUA_POST"
	ErrCodeUsernameTaken        = "USERNAME_TAKEN"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeUploadTooLarge       = "UPLOAD_TOO_LARGE"
	ErrCodeUnsupportedMedia     = "UNSUPPORTED_MEDIA"
)

// NewUnauthorizedError は認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// ユーザー不在とパスワード誤りは区別せず同じメッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewForbiddenError は他人の所有リソースへの操作エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作は著者本人のみが行えます。",
		Category: "auth",
		Action:   "自分の投稿・メッセージに対してのみ操作してください。",
	}
}

// NewPostNotFoundError は投稿未検出エラーを生成する。
func NewPostNotFoundError(postID string) *APIError {
	return &APIError{
		Code:     ErrCodePostNotFound,
		Message:  fmt.Sprintf("指定された投稿が見つかりません: %s", postID),
		Category: "content",
		Action:   "投稿が削除されていないか確認してください。",
	}
}

// NewMessageNotFoundError はメッセージ未検出エラーを生成する。
func NewMessageNotFoundError(messageID string) *APIError {
	return &APIError{
		Code:     ErrCodeMessageNotFound,
		Message:  fmt.Sprintf("指定されたメッセージが見つかりません: %s", messageID),
		Category: "content",
		Action:   "メッセージが削除されていないか確認してください。",
	}
}

// NewCommentNotFoundError はコメント未検出エラーを生成する。
func NewCommentNotFoundError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("指定されたコメントが見つかりません: %s", commentID),
		Category: "content",
		Action:   "コメントが削除されていないか確認してください。",
	}
}

// NewConfirmationNotFoundError は確認レコード未検出エラーを生成する。
func NewConfirmationNotFoundError(confirmationID string) *APIError {
	return &APIError{
		Code:     ErrCodeConfirmationNotFound,
		Message:  fmt.Sprintf("指定された祈りの確認が見つかりません: %s", confirmationID),
		Category: "content",
		Action:   "投稿を再読み込みしてください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", username),
		Category: "auth",
		Action:   "ユーザー名を確認してください。",
	}
}

// NewAlreadyConfirmedError は祈りの重複確認エラーを生成する。
func NewAlreadyConfirmedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyConfirmed,
		Message:  "このドゥアにはすでに祈りの確認を送信済みです。",
		Category: "content",
		Action:   "1つのドゥアに送信できる確認は1回のみです。",
	}
}

// NewNotDuaPostError はドゥア以外の投稿への確認エラーを生成する。
func NewNotDuaPostError() *APIError {
	return &APIError{
		Code:     ErrCodeNotDuaPost,
		Message:  "この投稿はドゥアではないため、祈りの確認を送信できません。",
		Category: "content",
		Action:   "ドゥア投稿に対してのみ確認を送信してください。",
	}
}

// NewUsernameTakenError はユーザー名の重複エラーを生成する。
func NewUsernameTakenError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  fmt.Sprintf("このユーザー名はすでに使われています: %s", username),
		Category: "validation",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewInvalidRequestError はリクエスト形式のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewUploadTooLargeError はアップロードサイズ超過エラーを生成する。
func NewUploadTooLargeError(maxBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeUploadTooLarge,
		Message:  fmt.Sprintf("ファイルサイズが上限（%dバイト）を超えています。", maxBytes),
		Category: "validation",
		Action:   "より小さいファイルをアップロードしてください。",
	}
}

// NewUnsupportedMediaError は非対応メディア種別エラーを生成する。
func NewUnsupportedMediaError(mimeType string) *APIError {
	return &APIError{
		Code:     ErrCodeUnsupportedMedia,
		Message:  fmt.Sprintf("対応していないファイル形式です: %s", mimeType),
		Category: "validation",
		Action:   "画像または動画ファイルをアップロードしてください。",
	}
}
