package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rssDigestBot/internal/domain/entity"
	"rssDigestBot/internal/domain/repository"

	_ "modernc.org/sqlite"
)

type sqliteState struct {
	db *sql.DB
}

// SQLiteStateRepository is a StateRepository that must be closed after use.
type SQLiteStateRepository interface {
	repository.StateRepository
	Close() error
}

func NewSQLiteStateRepository(dbPath string) (SQLiteStateRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	state := &sqliteState{db: db}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := state.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return state, nil
}

func (s *sqliteState) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS processed_ids (
			id TEXT PRIMARY KEY,
			processed_at INTEGER NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

func (s *sqliteState) Load(ctx context.Context) (*entity.ProcessedIDSet, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM processed_ids")
	if err != nil {
		return nil, fmt.Errorf("failed to query processed ids: %w", err)
	}
	defer rows.Close()

	ids := entity.NewProcessedIDSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan processed id: %w", err)
		}
		ids.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate processed ids: %w", err)
	}

	return ids, nil
}

// Save replaces the stored set. Ids that were already stored keep their
// original processed_at.
func (s *sqliteState) Save(ctx context.Context, ids *entity.ProcessedIDSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "CREATE TEMP TABLE IF NOT EXISTS keep_ids (id TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("failed to create temp table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM keep_ids"); err != nil {
		return fmt.Errorf("failed to reset temp table: %w", err)
	}

	now := time.Now().Unix()
	for _, id := range ids.Sorted() {
		if _, err := tx.ExecContext(ctx, "INSERT INTO keep_ids (id) VALUES (?)", id); err != nil {
			return fmt.Errorf("failed to stage processed id: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO processed_ids (id, processed_at) VALUES (?, ?)
			ON CONFLICT(id) DO NOTHING`,
			id,
			now,
		); err != nil {
			return fmt.Errorf("failed to save processed id: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM processed_ids WHERE id NOT IN (SELECT id FROM keep_ids)"); err != nil {
		return fmt.Errorf("failed to prune processed ids: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *sqliteState) Close() error {
	return s.db.Close()
}
