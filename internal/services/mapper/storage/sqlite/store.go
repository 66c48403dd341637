// Package sqlite provides a SQLite-backed atlas storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/dyle/rpgmapper-sub001/internal/platform/storage/sqlitemigrate"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/storage"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists atlas records in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite atlas store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutAtlas inserts or replaces one atlas record. The creation time of an
// existing record is kept.
func (s *Store) PutAtlas(ctx context.Context, record storage.AtlasRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	atlasID := strings.TrimSpace(record.ID)
	if atlasID == "" {
		return fmt.Errorf("atlas id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("atlas name is required")
	}
	if len(record.Document) == 0 {
		return fmt.Errorf("atlas document is required")
	}
	updatedAt := record.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = s.now().UTC()
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO atlases (atlas_id, name, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(atlas_id) DO UPDATE SET
		   name = excluded.name,
		   document = excluded.document,
		   updated_at = excluded.updated_at`,
		atlasID,
		record.Name,
		record.Document,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put atlas: %w", err)
	}
	return nil
}

// GetAtlas returns one atlas record by ID.
func (s *Store) GetAtlas(ctx context.Context, atlasID string) (storage.AtlasRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AtlasRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.AtlasRecord{}, fmt.Errorf("storage is not configured")
	}
	atlasID = strings.TrimSpace(atlasID)
	if atlasID == "" {
		return storage.AtlasRecord{}, fmt.Errorf("atlas id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT atlas_id, name, document, created_at, updated_at
		   FROM atlases
		  WHERE atlas_id = ?`,
		atlasID,
	)
	var record storage.AtlasRecord
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&record.ID, &record.Name, &record.Document, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.AtlasRecord{}, storage.ErrNotFound.With(atlasID, map[string]string{"ID": atlasID})
		}
		return storage.AtlasRecord{}, fmt.Errorf("get atlas: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// ListAtlases returns summaries ordered by name, then ID.
func (s *Store) ListAtlases(ctx context.Context) ([]storage.AtlasSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT atlas_id, name, updated_at
		   FROM atlases
		  ORDER BY name ASC, atlas_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list atlases: %w", err)
	}
	defer rows.Close()

	summaries := []storage.AtlasSummary{}
	for rows.Next() {
		var summary storage.AtlasSummary
		var updatedAt int64
		if err := rows.Scan(&summary.ID, &summary.Name, &updatedAt); err != nil {
			return nil, fmt.Errorf("list atlases: %w", err)
		}
		summary.UpdatedAt = fromMillis(updatedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list atlases: %w", err)
	}
	return summaries, nil
}

// DeleteAtlas removes one atlas record.
func (s *Store) DeleteAtlas(ctx context.Context, atlasID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	atlasID = strings.TrimSpace(atlasID)
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM atlases WHERE atlas_id = ?`, atlasID)
	if err != nil {
		return fmt.Errorf("delete atlas: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete atlas: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound.With(atlasID, map[string]string{"ID": atlasID})
	}
	return nil
}

var _ storage.AtlasStore = (*Store)(nil)
