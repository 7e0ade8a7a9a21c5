// Package realtime はWebSocketによる状態変更イベントのファンアウトを提供する。
//
// すべての変更系ハンドラーは成功時に必ず1つのイベントを発行し、接続中の
// 全クライアントへ配信する。配信はfire-and-forgetであり、切断済み
// クライアントへの配信失敗は黙って破棄される（クライアントは次回の
// ポーリングで追いつく）。
package realtime

// EventType はブロードキャストするイベントの種別を表す。
type EventType string

const (
	// EventNewPost は投稿の作成・更新を表す。ペイロードは投稿全体。
	EventNewPost EventType = "newPost"
	// EventDeletePost は投稿の削除を表す。ペイロードは削除されたID。
	EventDeletePost EventType = "deletePost"
	// EventNewMessage はメッセージの作成を表す。ペイロードはメッセージ全体。
	EventNewMessage EventType = "newMessage"
	// EventUpdateMessage はメッセージの更新を表す。ペイロードはメッセージ全体。
	EventUpdateMessage EventType = "updateMessage"
	// EventDeleteMessage はメッセージの削除を表す。ペイロードは削除されたID。
	EventDeleteMessage EventType = "deleteMessage"
	// EventDuaUpdate はドゥアの確認・感謝を表す。
	EventDuaUpdate EventType = "duaUpdate"
)

// Event はブロードキャストされる型付きイベントを表す。
// 受信側が再フェッチなしでローカル状態を更新できる情報を持つ。
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// DeletedPayload は削除イベントのペイロード。
type DeletedPayload struct {
	ID string `json:"id"`
}

// DuaUpdateType はドゥア更新イベントの種別を表す。
type DuaUpdateType string

const (
	// DuaUpdateConfirmation は祈りの確認を表す。
	DuaUpdateConfirmation DuaUpdateType = "CONFIRMATION"
	// DuaUpdateThank は著者からの感謝を表す。
	DuaUpdateThank DuaUpdateType = "THANK"
)

// DuaUpdatePayload はduaUpdateイベントのペイロード。
type DuaUpdatePayload struct {
	PostID string        `json:"postId"`
	Type   DuaUpdateType `json:"type"`
	User   string        `json:"user,omitempty"`
}

// Broadcaster はイベント発行のインターフェース。
// サービス層はHubへの依存をこのインターフェース経由に限定する。
type Broadcaster interface {
	// Broadcast はイベントを接続中の全クライアントへ配信する。
	// 配信はat-most-onceで、HTTPレスポンスとの順序は保証されない。
	Broadcast(event Event)
}
