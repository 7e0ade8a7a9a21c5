package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/kizuna/internal/model"
)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	comment := &model.Comment{}
	var replyTo sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, author_name, body, reply_to, created_at, updated_at
		 FROM comments WHERE id = $1`,
		id,
	).Scan(&comment.ID, &comment.PostID, &comment.AuthorName, &comment.Body, &replyTo, &comment.CreatedAt, &comment.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("コメントの取得に失敗しました: %w", err)
	}

	if replyTo.Valid {
		comment.ReplyTo = &replyTo.String
	}

	return comment, nil
}

// ListByPostIDs は指定投稿群のコメントを返信先著者名付きでcreated_at昇順で返す。
// 返信先の著者名はcommentsテーブルの自己LEFT JOINで解決する（ベストエフォート）。
func (r *PostgresCommentRepo) ListByPostIDs(ctx context.Context, postIDs []string) ([]CommentWithReplyAuthor, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_name, c.body, c.reply_to,
		        COALESCE(parent.author_name, ''),
		        c.created_at, c.updated_at
		 FROM comments c
		 LEFT JOIN comments parent ON parent.id = c.reply_to
		 WHERE c.post_id = ANY($1)
		 ORDER BY c.created_at ASC, c.id ASC`,
		pq.Array(postIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("コメント一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var comments []CommentWithReplyAuthor
	for rows.Next() {
		var c CommentWithReplyAuthor
		var replyTo sql.NullString
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorName, &c.Body, &replyTo, &c.ReplyToAuthor, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("コメント行の読み取りに失敗しました: %w", err)
		}
		if replyTo.Valid {
			c.ReplyTo = &replyTo.String
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("コメント一覧の走査に失敗しました: %w", err)
	}

	return comments, nil
}

// Create はコメントを作成する。
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_name, body, reply_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.ID, comment.PostID, comment.AuthorName, comment.Body, comment.ReplyTo,
		comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("コメントの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateBody はコメント本文を更新する。
func (r *PostgresCommentRepo) UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET body = $2, updated_at = $3 WHERE id = $1`,
		id, body, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("コメントの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのコメントを削除する。
func (r *PostgresCommentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("コメントの削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
