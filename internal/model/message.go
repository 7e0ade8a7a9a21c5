// Package model はドメインモデルを定義する。
package model

import "time"

// Message は共有チャットボードのメッセージを表す。
// ReplyToは別メッセージへの参照で、表示時に返信先の著者名へ解決される。
// 既読状態はメッセージ側では持たず、ユーザーごとの既読チェックポイント
// （User.LastChatReadAt）との比較で判定する。
type Message struct {
	ID         string
	AuthorName string
	Body       string // サニタイズ済み
	ReplyTo    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
