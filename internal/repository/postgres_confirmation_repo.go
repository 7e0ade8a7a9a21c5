package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/kizuna/internal/model"
)

// PostgresConfirmationRepo はPostgreSQLを使用した祈りの確認リポジトリ。
type PostgresConfirmationRepo struct {
	db *sql.DB
}

// NewPostgresConfirmationRepo はPostgresConfirmationRepoを生成する。
func NewPostgresConfirmationRepo(db *sql.DB) *PostgresConfirmationRepo {
	return &PostgresConfirmationRepo{db: db}
}

// FindByID は指定IDの確認を取得する。見つからない場合はnilを返す。
func (r *PostgresConfirmationRepo) FindByID(ctx context.Context, id string) (*model.DuaConfirmation, error) {
	c := &model.DuaConfirmation{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, username, is_thanked, created_at
		 FROM dua_confirmations WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.PostID, &c.Username, &c.IsThanked, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("祈りの確認の取得に失敗しました: %w", err)
	}

	return c, nil
}

// FindByPostAndUser は投稿IDとユーザー名で確認を検索する。見つからない場合はnilを返す。
func (r *PostgresConfirmationRepo) FindByPostAndUser(ctx context.Context, postID, username string) (*model.DuaConfirmation, error) {
	c := &model.DuaConfirmation{}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, username, is_thanked, created_at
		 FROM dua_confirmations WHERE post_id = $1 AND username = $2`,
		postID, username,
	).Scan(&c.ID, &c.PostID, &c.Username, &c.IsThanked, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("祈りの確認の検索に失敗しました: %w", err)
	}

	return c, nil
}

// ListByPostIDs は指定投稿群の確認をcreated_at昇順で返す。
func (r *PostgresConfirmationRepo) ListByPostIDs(ctx context.Context, postIDs []string) ([]*model.DuaConfirmation, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, username, is_thanked, created_at
		 FROM dua_confirmations
		 WHERE post_id = ANY($1)
		 ORDER BY created_at ASC, id ASC`,
		pq.Array(postIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("祈りの確認一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var confirmations []*model.DuaConfirmation
	for rows.Next() {
		c := &model.DuaConfirmation{}
		if err := rows.Scan(&c.ID, &c.PostID, &c.Username, &c.IsThanked, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("祈りの確認行の読み取りに失敗しました: %w", err)
		}
		confirmations = append(confirmations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("祈りの確認一覧の走査に失敗しました: %w", err)
	}

	return confirmations, nil
}

// Create は確認を作成する。UNIQUE(post_id, username)制約との競合時は
// 挿入せずfalseを返す。サービス層の事前チェックをすり抜けた並行リクエストも
// ここで1件に収束する。
func (r *PostgresConfirmationRepo) Create(ctx context.Context, confirmation *model.DuaConfirmation) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO dua_confirmations (id, post_id, username, is_thanked, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (post_id, username) DO NOTHING`,
		confirmation.ID, confirmation.PostID, confirmation.Username,
		confirmation.IsThanked, confirmation.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("祈りの確認の作成に失敗しました: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("祈りの確認の挿入結果の取得に失敗しました: %w", err)
	}

	return inserted > 0, nil
}

// SetThanked は確認のis_thankedをtrueにする。
func (r *PostgresConfirmationRepo) SetThanked(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dua_confirmations SET is_thanked = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("感謝の記録に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ConfirmationRepository = (*PostgresConfirmationRepo)(nil)
