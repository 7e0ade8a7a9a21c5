// Package model はドメインモデルを定義する。
package model

import "time"

// User は家族SNSの利用ユーザーを表す。
// Usernameが一意な識別子であり、投稿・メッセージ・コメントの著者参照にも使われる。
// 改名時は全テーブルの著者参照がカスケード更新される（UserRepository.Rename）。
type User struct {
	ID              string
	Username        string
	PasswordHash    string
	ProfilePhotoURL string
	Bio             string
	LastFeedReadAt  time.Time // フィードの既読チェックポイント
	LastChatReadAt  time.Time // チャットの既読チェックポイント
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PhotoHistory はプロフィール写真の変更履歴を表す。
// プロフィール画面で過去の写真一覧として表示される。
type PhotoHistory struct {
	ID        string
	Username  string
	PhotoURL  string
	CreatedAt time.Time
}

// UnreadCounts はユーザーごとの未読カウンターを表す。
// チャット未読数とフィード未読数はそれぞれの既読チェックポイントより
// 新しい他者の投稿・メッセージの件数。
type UnreadCounts struct {
	Chat int
	Feed int
}

// ReadCategory は既読マークの対象カテゴリを表す。
type ReadCategory string

const (
	// ReadCategoryChat はチャットの既読チェックポイントを表す。
	ReadCategoryChat ReadCategory = "chat"
	// ReadCategoryFeed はフィードの既読チェックポイントを表す。
	ReadCategoryFeed ReadCategory = "feed"
)

// Valid はカテゴリが定義済みの値であるかを返す。
func (c ReadCategory) Valid() bool {
	return c == ReadCategoryChat || c == ReadCategoryFeed
}
