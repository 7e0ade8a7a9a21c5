package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/kizuna/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, profile_photo_url, bio,
		        last_feed_read_at, last_chat_read_at, created_at, updated_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(
		&user.ID, &user.Username, &user.PasswordHash,
		&user.ProfilePhotoURL, &user.Bio,
		&user.LastFeedReadAt, &user.LastChatReadAt,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	return user, nil
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, profile_photo_url, bio,
		                    last_feed_read_at, last_chat_read_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Username, user.PasswordHash,
		user.ProfilePhotoURL, user.Bio,
		user.LastFeedReadAt, user.LastChatReadAt,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateProfilePhoto はプロフィール写真URLを更新する。
func (r *PostgresUserRepo) UpdateProfilePhoto(ctx context.Context, username, photoURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET profile_photo_url = $2, updated_at = now() WHERE username = $1`,
		username, photoURL,
	)
	if err != nil {
		return fmt.Errorf("プロフィール写真の更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateSettings はパスワードハッシュとbioを部分更新する。
// nilフィールドは変更せず、既存の値を維持する。
func (r *PostgresUserRepo) UpdateSettings(ctx context.Context, username string, passwordHash, bio *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET
		    password_hash = COALESCE($2, password_hash),
		    bio           = COALESCE($3, bio),
		    updated_at    = now()
		 WHERE username = $1`,
		username, passwordHash, bio,
	)
	if err != nil {
		return fmt.Errorf("設定の更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateReadCheckpoint は指定カテゴリの既読チェックポイントを更新する。
func (r *PostgresUserRepo) UpdateReadCheckpoint(ctx context.Context, username string, category model.ReadCategory, readAt time.Time) error {
	column := "last_feed_read_at"
	if category == model.ReadCategoryChat {
		column = "last_chat_read_at"
	}

	// columnは上の2値のいずれかに限定されるため、識別子の組み立ては安全。
	query := fmt.Sprintf(
		`UPDATE users SET %s = $2, updated_at = now() WHERE username = $1`, column)

	_, err := r.db.ExecContext(ctx, query, username, readAt)
	if err != nil {
		return fmt.Errorf("既読チェックポイントの更新に失敗しました: %w", err)
	}
	return nil
}

// Rename はユーザー名を変更し、全テーブルの著者参照を同一トランザクションで
// カスケード更新する。更新順: posts, messages, comments, photo_history,
// dua_confirmations, users。途中で失敗した場合は全体がロールバックされる。
func (r *PostgresUserRepo) Rename(ctx context.Context, oldName, newName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	statements := []struct {
		label string
		query string
	}{
		{"posts", `UPDATE posts SET author_name = $2 WHERE author_name = $1`},
		{"messages", `UPDATE messages SET author_name = $2 WHERE author_name = $1`},
		{"comments", `UPDATE comments SET author_name = $2 WHERE author_name = $1`},
		{"photo_history", `UPDATE photo_history SET username = $2 WHERE username = $1`},
		{"dua_confirmations", `UPDATE dua_confirmations SET username = $2 WHERE username = $1`},
		{"users", `UPDATE users SET username = $2, updated_at = now() WHERE username = $1`},
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, oldName, newName); err != nil {
			return fmt.Errorf("ユーザー名カスケード更新（%s）に失敗しました: %w", stmt.label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ユーザー名変更のコミットに失敗しました: %w", err)
	}

	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
