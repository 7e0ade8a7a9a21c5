// Package app はアプリケーションの起動と依存関係のワイヤリングを担う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/kizuna/internal/auth"
	"github.com/hitoshi/kizuna/internal/chat"
	"github.com/hitoshi/kizuna/internal/config"
	"github.com/hitoshi/kizuna/internal/database"
	"github.com/hitoshi/kizuna/internal/feed"
	"github.com/hitoshi/kizuna/internal/handler"
	"github.com/hitoshi/kizuna/internal/logger"
	"github.com/hitoshi/kizuna/internal/metrics"
	"github.com/hitoshi/kizuna/internal/middleware"
	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/profile"
	"github.com/hitoshi/kizuna/internal/realtime"
	"github.com/hitoshi/kizuna/internal/repository"
	"github.com/hitoshi/kizuna/internal/security"
	"github.com/hitoshi/kizuna/internal/storage"
	"github.com/hitoshi/kizuna/internal/unread"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(cfg, args[1:])
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	postRepo := repository.NewPostgresPostRepo(db)
	commentRepo := repository.NewPostgresCommentRepo(db)
	confirmationRepo := repository.NewPostgresConfirmationRepo(db)
	messageRepo := repository.NewPostgresMessageRepo(db)
	attachmentRepo := repository.NewPostgresAttachmentRepo(db)
	photoHistoryRepo := repository.NewPostgresPhotoHistoryRepo(db)

	// 3. メトリクスとセキュリティの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	sanitizer := security.NewContentSanitizer()

	// 4. トークンとオブジェクトストアの初期化
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenMaxAge)

	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.BaseURL, cfg.UploadMaxSize)
	if err != nil {
		return fmt.Errorf("failed to initialize upload store: %w", err)
	}

	// 5. リアルタイム配信ハブの初期化
	hub := realtime.NewHub(tokens, collector)

	// 6. ドメインサービスの初期化
	authService := auth.NewService(userRepo, tokens)
	feedService := feed.NewService(postRepo, commentRepo, confirmationRepo, attachmentRepo, sanitizer, hub)
	chatService := chat.NewService(messageRepo, attachmentRepo, sanitizer, hub)
	unreadService := unread.NewService(userRepo, postRepo, messageRepo)
	profileService := profile.NewService(userRepo, photoHistoryRepo, sanitizer)

	// 7. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitUpload),
	)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		TokenVerifier:     tokens,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),
		MetricsCollector:  collector,

		AuthService:    authService,
		FeedService:    feedService,
		CommentService: feedService,
		ChatService:    chatService,
		UnreadService:  unreadService,
		ProfileService: profileService,

		Store:     store,
		UploadDir: store.Dir(),

		WSHandler: hub.HandleWS,

		MetricsHandler: metrics.Handler(registry),
		HealthHandler: func(w http.ResponseWriter, r *http.Request) {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "db unreachable", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		},
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	// WebSocket接続を先に閉じ、その後HTTPサーバーをドレインする
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runSeed は家族メンバーのアカウントを作成する。
// 使い方: kizuna seed <username> <password>
func runSeed(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: kizuna seed <username> <password>")
	}
	username, password := args[0], args[1]

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	userRepo := repository.NewPostgresUserRepo(db)

	ctx := context.Background()
	existing, err := userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("user %q already exists", username)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             uuid.New().String(),
		Username:       username,
		PasswordHash:   hash,
		LastFeedReadAt: now,
		LastChatReadAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", slog.String("username", username))
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
