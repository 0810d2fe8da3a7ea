package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/repository"
)

// SnapshotRepository implements project.SnapshotStore for SQLite
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveSnapshot replaces the snapshot stored under snap.Key
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, snap *project.Snapshot) error {
	if snap == nil || snap.Key == "" {
		return fmt.Errorf("%w: snapshot key is required", repository.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO project_snapshots (key, fetched_at)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET fetched_at = excluded.fetched_at
	`, snap.Key, snap.FetchedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_projects WHERE snapshot_key = ?`, snap.Key); err != nil {
		return fmt.Errorf("failed to clear snapshot projects: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_projects (snapshot_key, position, slug, name, platform)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(snapshot_key, slug) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range snap.Projects {
		if _, err := stmt.ExecContext(ctx, snap.Key, i, p.Slug, p.Name, p.Platform); err != nil {
			return fmt.Errorf("failed to save project %s: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the snapshot stored under key
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context, key string) (*project.Snapshot, error) {
	var fetchedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM project_snapshots WHERE key = ?`, key).Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT slug, name, platform
		FROM snapshot_projects
		WHERE snapshot_key = ?
		ORDER BY position ASC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.Slug, &p.Name, &p.Platform); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return &project.Snapshot{
		Key:       key,
		Projects:  projects,
		FetchedAt: time.Unix(0, fetchedAt),
	}, nil
}

// DeleteSnapshot removes the snapshot stored under key
func (r *SnapshotRepository) DeleteSnapshot(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
