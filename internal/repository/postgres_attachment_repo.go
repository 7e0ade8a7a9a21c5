package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/kizuna/internal/model"
)

// PostgresAttachmentRepo はPostgreSQLを使用した添付ファイルリポジトリ。
type PostgresAttachmentRepo struct {
	db *sql.DB
}

// NewPostgresAttachmentRepo はPostgresAttachmentRepoを生成する。
func NewPostgresAttachmentRepo(db *sql.DB) *PostgresAttachmentRepo {
	return &PostgresAttachmentRepo{db: db}
}

// Create は添付レコードを作成する。
func (r *PostgresAttachmentRepo) Create(ctx context.Context, attachment *model.Attachment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attachments (id, post_id, message_id, url, mime_type, original_name, size_bytes, position, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		attachment.ID, attachment.PostID, attachment.MessageID,
		attachment.URL, attachment.MimeType, attachment.OriginalName,
		attachment.SizeBytes, attachment.Position, attachment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("添付の作成に失敗しました: %w", err)
	}
	return nil
}

// ListByPostIDs は指定投稿群の添付をposition昇順で返す。
func (r *PostgresAttachmentRepo) ListByPostIDs(ctx context.Context, postIDs []string) ([]*model.Attachment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx,
		`SELECT id, post_id, message_id, url, mime_type, original_name, size_bytes, position, created_at
		 FROM attachments WHERE post_id = ANY($1)
		 ORDER BY position ASC, created_at ASC`,
		postIDs,
	)
}

// ListByMessageIDs は指定メッセージ群の添付を返す。
func (r *PostgresAttachmentRepo) ListByMessageIDs(ctx context.Context, messageIDs []string) ([]*model.Attachment, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx,
		`SELECT id, post_id, message_id, url, mime_type, original_name, size_bytes, position, created_at
		 FROM attachments WHERE message_id = ANY($1)
		 ORDER BY created_at ASC`,
		messageIDs,
	)
}

// list は添付の一覧クエリを実行し結果を読み取る共通ヘルパー。
func (r *PostgresAttachmentRepo) list(ctx context.Context, query string, ids []string) ([]*model.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("添付一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var attachments []*model.Attachment
	for rows.Next() {
		a := &model.Attachment{}
		var postID, messageID sql.NullString
		if err := rows.Scan(&a.ID, &postID, &messageID, &a.URL, &a.MimeType, &a.OriginalName, &a.SizeBytes, &a.Position, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("添付行の読み取りに失敗しました: %w", err)
		}
		if postID.Valid {
			a.PostID = &postID.String
		}
		if messageID.Valid {
			a.MessageID = &messageID.String
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("添付一覧の走査に失敗しました: %w", err)
	}

	return attachments, nil
}

// compile-time interface check
var _ AttachmentRepository = (*PostgresAttachmentRepo)(nil)
