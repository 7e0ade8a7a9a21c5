package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/kizuna/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したチャットメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
func (r *PostgresMessageRepo) FindByID(ctx context.Context, id string) (*model.Message, error) {
	message := &model.Message{}
	var replyTo sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_name, body, reply_to, created_at, updated_at
		 FROM messages WHERE id = $1`,
		id,
	).Scan(&message.ID, &message.AuthorName, &message.Body, &replyTo, &message.CreatedAt, &message.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}

	if replyTo.Valid {
		message.ReplyTo = &replyTo.String
	}

	return message, nil
}

// ListAll は全メッセージを返信先著者名付きでcreated_at昇順で返す。
// 返信先の著者名はmessagesテーブルの自己LEFT JOINで解決する（ベストエフォート）。
func (r *PostgresMessageRepo) ListAll(ctx context.Context) ([]MessageWithReplyAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.author_name, m.body, m.reply_to,
		        COALESCE(parent.author_name, ''),
		        m.created_at, m.updated_at
		 FROM messages m
		 LEFT JOIN messages parent ON parent.id = m.reply_to
		 ORDER BY m.created_at ASC, m.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("メッセージ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var messages []MessageWithReplyAuthor
	for rows.Next() {
		var m MessageWithReplyAuthor
		var replyTo sql.NullString
		if err := rows.Scan(&m.ID, &m.AuthorName, &m.Body, &replyTo, &m.ReplyToAuthor, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("メッセージ行の読み取りに失敗しました: %w", err)
		}
		if replyTo.Valid {
			m.ReplyTo = &replyTo.String
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("メッセージ一覧の走査に失敗しました: %w", err)
	}

	return messages, nil
}

// Create はメッセージを作成する。
func (r *PostgresMessageRepo) Create(ctx context.Context, message *model.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, author_name, body, reply_to, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		message.ID, message.AuthorName, message.Body, message.ReplyTo,
		message.CreatedAt, message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("メッセージの作成に失敗しました: %w", err)
	}
	return nil
}

// UpdateBody はメッセージ本文を更新する。
func (r *PostgresMessageRepo) UpdateBody(ctx context.Context, id, body string, updatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET body = $2, updated_at = $3 WHERE id = $1`,
		id, body, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("メッセージの更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのメッセージを削除する。添付はCASCADE削除される。
func (r *PostgresMessageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("メッセージの削除に失敗しました: %w", err)
	}
	return nil
}

// CountUnread はsinceより後に作成された、author以外の著者によるメッセージ数を返す。
func (r *PostgresMessageRepo) CountUnread(ctx context.Context, author string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE author_name <> $1 AND created_at > $2`,
		author, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("未読メッセージ数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
