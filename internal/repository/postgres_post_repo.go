package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/kizuna/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した投稿リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_name, body, post_type, created_at, updated_at
		 FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.AuthorName, &post.Body, &post.Type, &post.CreatedAt, &post.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("投稿の取得に失敗しました: %w", err)
	}

	return post, nil
}

// ListAll は全投稿をcreated_at降順で返す。
// 家族内の閉じた少人数利用を前提としており、ページネーションは行わない。
func (r *PostgresPostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author_name, body, post_type, created_at, updated_at
		 FROM posts ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("投稿一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post := &model.Post{}
		if err := rows.Scan(&post.ID, &post.AuthorName, &post.Body, &post.Type, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("投稿行の読み取りに失敗しました: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("投稿一覧の走査に失敗しました: %w", err)
	}

	return posts, nil
}

// Create は投稿を作成する。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, author_name, body, post_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.AuthorName, post.Body, post.Type, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("投稿の作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateBody は投稿本文を更新する。
func (r *PostgresPostRepo) UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET body = $2, updated_at = $3 WHERE id = $1`,
		id, body, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("投稿の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの投稿を削除する。コメント・確認・添付はCASCADE削除される。
func (r *PostgresPostRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("投稿の削除に失敗しました: %w", err)
	}
	return nil
}

// CountUnread はsinceより後に作成された、author以外の著者による投稿数を返す。
func (r *PostgresPostRepo) CountUnread(ctx context.Context, author string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_name <> $1 AND created_at > $2`,
		author, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("未読投稿数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
