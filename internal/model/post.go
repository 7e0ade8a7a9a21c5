// Package model はドメインモデルを定義する。
package model

import "time"

// PostType は投稿の種別を表す。
type PostType string

const (
	// PostTypeNormal は通常のテキスト/メディア投稿。
	PostTypeNormal PostType = "post"
	// PostTypeDua はドゥア（祈りのお願い）投稿。確認と感謝を収集する。
	PostTypeDua PostType = "dua"
)

// Valid は投稿種別が定義済みの値であるかを返す。
func (t PostType) Valid() bool {
	return t == PostTypeNormal || t == PostTypeDua
}

// Post はフィードへの投稿を表す。
// 本文の編集と削除は著者のみが行える。
type Post struct {
	ID         string
	AuthorName string
	Body       string // サニタイズ済み
	Type       PostType
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment は投稿へのコメントを表す。
// ReplyToは同じ投稿内の別コメントへの参照で、表示時に返信先の著者名へ解決される。
// 参照整合性はベストエフォート（返信先が削除されてもコメントは残る）。
type Comment struct {
	ID         string
	PostID     string
	AuthorName string
	Body       string // サニタイズ済み
	ReplyTo    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DuaConfirmation は「祈りました」の確認レコードを表す。
// (PostID, Username)の組は一意。IsThankedは投稿の著者が感謝を返したときにtrueになる。
type DuaConfirmation struct {
	ID        string
	PostID    string
	Username  string
	IsThanked bool
	CreatedAt time.Time
}

// Attachment は投稿またはメッセージに添付されたファイルを表す。
// PostIDとMessageIDはどちらか一方のみが設定される。
type Attachment struct {
	ID           string
	PostID       *string
	MessageID    *string
	URL          string
	MimeType     string
	OriginalName string
	SizeBytes    int64
	Position     int // 同一投稿内の表示順
	CreatedAt    time.Time
}
