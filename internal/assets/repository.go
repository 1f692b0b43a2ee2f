package assets

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	DeleteAsset(ctx context.Context, id string) error
	CountAssets(ctx context.Context) (int, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, kind, url, name, duration, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, string(a.Kind), a.URL, a.Name, a.Duration, a.Width, a.Height, a.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, url, name, duration, width, height, created_at
		FROM assets WHERE id = ?
	`, id)
	return scanAsset(row)
}

func scanAsset(row *sql.Row) (*Asset, error) {
	var a Asset
	var kind string
	var createdAt string

	err := row.Scan(&a.ID, &kind, &a.URL, &a.Name, &a.Duration, &a.Width, &a.Height, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.Kind = Kind(kind)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

func (r *SQLiteRepository) ListAssets(ctx context.Context) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, url, name, duration, width, height, created_at
		FROM assets ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Asset
	for rows.Next() {
		var a Asset
		var kind string
		var createdAt string
		if err := rows.Scan(&a.ID, &kind, &a.URL, &a.Name, &a.Duration, &a.Width, &a.Height, &createdAt); err != nil {
			return nil, err
		}
		a.Kind = Kind(kind)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) CountAssets(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&count)
	return count, err
}
