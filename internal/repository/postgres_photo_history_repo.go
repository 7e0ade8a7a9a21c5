package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kizuna/internal/model"
)

// PostgresPhotoHistoryRepo はPostgreSQLを使用したプロフィール写真履歴リポジトリ。
type PostgresPhotoHistoryRepo struct {
	db *sql.DB
}

// NewPostgresPhotoHistoryRepo はPostgresPhotoHistoryRepoを生成する。
func NewPostgresPhotoHistoryRepo(db *sql.DB) *PostgresPhotoHistoryRepo {
	return &PostgresPhotoHistoryRepo{db: db}
}

// Create は写真履歴レコードを作成する。
func (r *PostgresPhotoHistoryRepo) Create(ctx context.Context, history *model.PhotoHistory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO photo_history (id, username, photo_url, created_at)
		 VALUES ($1, $2, $3, $4)`,
		history.ID, history.Username, history.PhotoURL, history.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("写真履歴の作成に失敗しました: %w", err)
	}
	return nil
}

// ListByUsername は指定ユーザーの写真履歴をcreated_at降順で返す。
func (r *PostgresPhotoHistoryRepo) ListByUsername(ctx context.Context, username string) ([]*model.PhotoHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, photo_url, created_at
		 FROM photo_history WHERE username = $1
		 ORDER BY created_at DESC, id DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("写真履歴の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var histories []*model.PhotoHistory
	for rows.Next() {
		h := &model.PhotoHistory{}
		if err := rows.Scan(&h.ID, &h.Username, &h.PhotoURL, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("写真履歴行の読み取りに失敗しました: %w", err)
		}
		histories = append(histories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("写真履歴の走査に失敗しました: %w", err)
	}

	return histories, nil
}

// compile-time interface check
var _ PhotoHistoryRepository = (*PostgresPhotoHistoryRepo)(nil)
