package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hitoshi/kizuna/internal/metrics"
)

// writeWait は1接続への書き込みを待つ最大時間。
const writeWait = 10 * time.Second

// TokenVerifier はハンドシェイク時のトークン検証インターフェース。
// auth.TokenServiceの部分集合として定義する。
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// connection は1つのWebSocket接続を表す。
// gorilla/websocketは並行書き込みを許容しないため、書き込みはmuで直列化する。
type connection struct {
	ws       *websocket.Conn
	username string
	mu       sync.Mutex
}

// send はイベントのJSONを接続へ書き込む。
func (c *connection) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Hub は認証済みWebSocket接続の集合を管理し、イベントをファンアウトする。
type Hub struct {
	verifier  TokenVerifier
	collector metrics.RealtimeCollector
	upgrader  websocket.Upgrader

	mu     sync.Mutex
	conns  map[*connection]struct{}
	closed bool
}

// NewHub はHubを生成する。
func NewHub(verifier TokenVerifier, collector metrics.RealtimeCollector) *Hub {
	return &Hub{
		verifier:  verifier,
		collector: collector,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// CORSはHTTP側ミドルウェアで制御するため、ここではオリジンを制限しない
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*connection]struct{}),
	}
}

// HandleWS はWebSocket接続のハンドシェイクを処理する。
// GET /ws?token=... のトークンはアップグレード前に検証され、
// 無効な場合は401を返してイベントは一切配信しない。
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	username, err := h.verifier.Verify(token)
	if err != nil {
		slog.Warn("websocket auth rejected", slog.String("error", err.Error()))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := &connection{ws: ws, username: username}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		ws.Close()
		return
	}
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	h.collector.RecordConnectionOpened()
	slog.Info("websocket connected", slog.String("username", username))

	// 読み取りループ。クライアントからの入力は受け付けず、
	// close検出のためにのみ読み続ける。
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	h.collector.RecordConnectionClosed()
	slog.Info("websocket disconnected", slog.String("username", username))
}

// Broadcast はイベントを接続中の全クライアントへ配信する。
// 配信はat-most-onceで、書き込みに失敗した接続は破棄される。
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event",
			slog.String("event_type", string(event.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.Lock()
	targets := make([]*connection, 0, len(h.conns))
	for conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.Unlock()

	for _, conn := range targets {
		if err := conn.send(data); err != nil {
			h.collector.RecordDeliveryDrop()
			conn.ws.Close()
			h.remove(conn)
		}
	}

	h.collector.RecordBroadcast(string(event.Type))
}

// ConnectionCount は現在の接続数を返す。テストおよび監視用。
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close は全接続を閉じ、以後の新規接続を拒否する。
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*connection, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[*connection]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.mu.Lock()
		conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
		conn.ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		conn.mu.Unlock()
		conn.ws.Close()
	}
}

// remove は接続を管理対象から外す。
func (h *Hub) remove(conn *connection) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
}

// compile-time interface check
var _ Broadcaster = (*Hub)(nil)
