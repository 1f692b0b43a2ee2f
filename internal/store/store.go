// Package store persists project trees and agent key/value configuration in
// SQLite. A project row is the full serialized record graph, so a load
// reconstructs the timeline from data alone.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// ProjectInfo is the listing row for a stored project.
type ProjectInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	SaveProject(ctx context.Context, p *timeline.Project) error
	LoadProject(ctx context.Context, id string) (*timeline.Project, error)
	ListProjects(ctx context.Context) ([]*ProjectInfo, error)
	DeleteProject(ctx context.Context, id string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteStore struct {
	db *sql.DB
}

func New(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// SaveProject upserts the full project record graph.
func (s *SQLiteStore) SaveProject(ctx context.Context, p *timeline.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = excluded.updated_at
	`, p.ID, p.Name, string(data), p.CreatedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	return err
}

// LoadProject reconstructs a project from its stored record graph. Returns
// (nil, nil) when the id is unknown.
func (s *SQLiteStore) LoadProject(ctx context.Context, id string) (*timeline.Project, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM projects WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p timeline.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshal project %s: %w", id, err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*ProjectInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*ProjectInfo
	for rows.Next() {
		var info ProjectInfo
		var createdAt, updatedAt string
		if err := rows.Scan(&info.ID, &info.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		list = append(list, &info)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *SQLiteStore) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
