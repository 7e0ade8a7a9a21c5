package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/kizuna/internal/middleware"
	"github.com/hitoshi/kizuna/internal/storage"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	MetricsCollector  middleware.HTTPCollector

	// サービス
	AuthService    AuthServiceInterface
	FeedService    FeedServiceInterface
	CommentService CommentServiceInterface
	ChatService    ChatServiceInterface
	UnreadService  UnreadServiceInterface
	ProfileService ProfileServiceInterface

	// ファイルストア
	Store     storage.Store
	UploadDir string

	// WebSocket
	WSHandler http.HandlerFunc

	// 運用エンドポイント
	MetricsHandler http.Handler
	HealthHandler  http.HandlerFunc
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → Auth → RateLimit(General)
//
// ログイン・ヘルスチェック・メトリクス・静的ファイル・WebSocketは認証チェーンの外に配置する。
// WebSocketはAuthorizationヘッダーを付けられないブラウザWebSocket APIの制約のため、
// クエリパラメータのトークンをハンドラー内部で検証する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.MetricsCollector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsCollector))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	postHandler := NewPostHandler(deps.FeedService, deps.Store)
	commentHandler := NewCommentHandler(deps.CommentService)
	messageHandler := NewMessageHandler(deps.ChatService, deps.Store)
	unreadHandler := NewUnreadHandler(deps.UnreadService)
	profileHandler := NewProfileHandler(deps.ProfileService, deps.Store)

	// --- 認証不要のルート ---

	r.Post("/api/login", authHandler.Login)

	if deps.HealthHandler != nil {
		r.Get("/health", deps.HealthHandler)
	}
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	if deps.WSHandler != nil {
		r.Get("/ws", deps.WSHandler)
	}

	// アップロード済みファイルの静的配信
	if deps.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 投稿とドゥア
		r.Route("/api/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)
			// POST /api/posts - メディア添付があるためアップロード専用レート制限を追加
			r.With(deps.RateLimiter.UploadMiddleware()).Post("/", postHandler.CreatePost)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", postHandler.UpdatePost)
				r.Delete("/", postHandler.DeletePost)
			})

			// コメント作成
			r.Post("/{postId}/comments", commentHandler.CreateComment)
		})

		r.Route("/api/comments/{id}", func(r chi.Router) {
			r.Put("/", commentHandler.UpdateComment)
			r.Delete("/", commentHandler.DeleteComment)
		})

		r.Route("/api/dua", func(r chi.Router) {
			r.Post("/confirm/{postId}", postHandler.ConfirmDua)
			r.Post("/thank/{confId}", postHandler.ThankConfirmation)
		})

		// チャット
		r.Route("/api/messages", func(r chi.Router) {
			r.Get("/", messageHandler.ListMessages)
			r.With(deps.RateLimiter.UploadMiddleware()).Post("/", messageHandler.CreateMessage)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", messageHandler.UpdateMessage)
				r.Delete("/", messageHandler.DeleteMessage)
			})
		})

		// 未読
		r.Get("/api/unread-counts", unreadHandler.GetCounts)
		r.Post("/api/mark-read", unreadHandler.MarkRead)

		// プロフィール
		r.Route("/api/profile", func(r chi.Router) {
			r.With(deps.RateLimiter.UploadMiddleware()).Post("/photo", profileHandler.UpdatePhoto)
			r.Put("/settings", profileHandler.UpdateSettings)
			r.Get("/{username}", profileHandler.GetProfile)
		})
	})

	return r
}
