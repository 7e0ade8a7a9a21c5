// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/kizuna/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfilePhoto はプロフィール写真URLを更新する。
	UpdateProfilePhoto(ctx context.Context, username, photoURL string) error

	// UpdateSettings はパスワードハッシュとbioを部分更新する。
	// nilフィールドは変更せず、既存の値を維持する。
	UpdateSettings(ctx context.Context, username string, passwordHash, bio *string) error

	// UpdateReadCheckpoint は指定カテゴリの既読チェックポイントを更新する。
	UpdateReadCheckpoint(ctx context.Context, username string, category model.ReadCategory, readAt time.Time) error

	// Rename はユーザー名を変更し、全テーブルの著者参照を同一トランザクションで
	// カスケード更新する。更新順: posts, messages, comments, photo_history,
	// dua_confirmations, users。途中で失敗した場合は全体がロールバックされる。
	Rename(ctx context.Context, oldName, newName string) error
}

// PostRepository は投稿データの永続化インターフェース。
type PostRepository interface {
	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// ListAll は全投稿をcreated_at降順で返す。
	ListAll(ctx context.Context) ([]*model.Post, error)

	// Create は投稿を作成する。
	Create(ctx context.Context, post *model.Post) error

	// UpdateBody は投稿本文を更新する。
	UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error

	// Delete は指定IDの投稿を削除する。コメント・確認・添付はCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// CountUnread はsinceより後に作成された、author以外の著者による投稿数を返す。
	CountUnread(ctx context.Context, author string, since time.Time) (int, error)
}

// CommentWithReplyAuthor はコメントと返信先コメントの著者名を結合した構造体。
// reply_toのIDを表示用の著者名へ解決するためにcommentsテーブルと自己結合して取得する。
type CommentWithReplyAuthor struct {
	model.Comment
	ReplyToAuthor string // 返信先がない、または削除済みの場合は空
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByPostIDs は指定投稿群のコメントを返信先著者名付きでcreated_at昇順で返す。
	ListByPostIDs(ctx context.Context, postIDs []string) ([]CommentWithReplyAuthor, error)

	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// UpdateBody はコメント本文を更新する。
	UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error

	// Delete は指定IDのコメントを削除する。
	Delete(ctx context.Context, id string) error
}

// ConfirmationRepository は祈りの確認レコードの永続化インターフェース。
type ConfirmationRepository interface {
	// FindByID は指定IDの確認を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.DuaConfirmation, error)

	// FindByPostAndUser は投稿IDとユーザー名で確認を検索する。見つからない場合はnilを返す。
	FindByPostAndUser(ctx context.Context, postID, username string) (*model.DuaConfirmation, error)

	// ListByPostIDs は指定投稿群の確認をcreated_at昇順で返す。
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*model.DuaConfirmation, error)

	// Create は確認を作成する。UNIQUE(post_id, username)制約との競合時は
	// 挿入せずfalseを返す（同一ユーザーからの並行確認は1件に収束する）。
	Create(ctx context.Context, confirmation *model.DuaConfirmation) (bool, error)

	// SetThanked は確認のis_thankedをtrueにする。
	SetThanked(ctx context.Context, id string) error
}

// MessageWithReplyAuthor はメッセージと返信先メッセージの著者名を結合した構造体。
type MessageWithReplyAuthor struct {
	model.Message
	ReplyToAuthor string // 返信先がない、または削除済みの場合は空
}

// MessageRepository はチャットメッセージの永続化インターフェース。
type MessageRepository interface {
	// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Message, error)

	// ListAll は全メッセージを返信先著者名付きでcreated_at昇順で返す。
	ListAll(ctx context.Context) ([]MessageWithReplyAuthor, error)

	// Create はメッセージを作成する。
	Create(ctx context.Context, message *model.Message) error

	// UpdateBody はメッセージ本文を更新する。
	UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error

	// Delete は指定IDのメッセージを削除する。添付はCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// CountUnread はsinceより後に作成された、author以外の著者によるメッセージ数を返す。
	CountUnread(ctx context.Context, author string, since time.Time) (int, error)
}

// AttachmentRepository は添付ファイルメタデータの永続化インターフェース。
// ファイル本体はオブジェクトストアに置かれ、ここにはURLとメタデータのみを保持する。
type AttachmentRepository interface {
	// Create は添付レコードを作成する。
	Create(ctx context.Context, attachment *model.Attachment) error

	// ListByPostIDs は指定投稿群の添付をposition昇順で返す。
	ListByPostIDs(ctx context.Context, postIDs []string) ([]*model.Attachment, error)

	// ListByMessageIDs は指定メッセージ群の添付を返す。
	ListByMessageIDs(ctx context.Context, messageIDs []string) ([]*model.Attachment, error)
}

// PhotoHistoryRepository はプロフィール写真履歴の永続化インターフェース。
type PhotoHistoryRepository interface {
	// Create は写真履歴レコードを作成する。
	Create(ctx context.Context, history *model.PhotoHistory) error

	// ListByUsername は指定ユーザーの写真履歴をcreated_at降順で返す。
	ListByUsername(ctx context.Context, username string) ([]*model.PhotoHistory, error)
}
