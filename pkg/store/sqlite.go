package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ritzau/workflow-canvas/pkg/codec"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS workflows (
	slug       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	node_count INTEGER NOT NULL,
	edge_count INTEGER NOT NULL,
	data       BLOB NOT NULL,
	saved_at   INTEGER NOT NULL
)`

// SQLiteStore keeps workflows in a single SQLite table.
type SQLiteStore struct {
	db    *sql.DB
	codec *codec.Codec
}

// OpenSQLite opens (or creates) the database and its schema.
func OpenSQLite(path string, c *codec.Codec) (*SQLiteStore, error) {
	if c == nil {
		c = codec.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, codec: c}, nil
}

// Save upserts the workflow keyed by its slug.
func (s *SQLiteStore) Save(ctx context.Context, wf Workflow) error {
	data, err := s.codec.Encode(wf)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflows (slug, name, node_count, edge_count, data, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			data = excluded.data,
			saved_at = excluded.saved_at`,
		Slug(wf.Name), wf.Name, len(wf.Nodes), len(wf.Edges), data, wf.SavedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}
	return nil
}

// Load reads a workflow by name.
func (s *SQLiteStore) Load(ctx context.Context, name string) (Workflow, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM workflows WHERE slug = ?`, Slug(name)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Workflow{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Workflow{}, fmt.Errorf("failed to load workflow: %w", err)
	}

	var wf Workflow
	if err := s.codec.Decode(data, &wf); err != nil {
		return Workflow{}, err
	}
	return wf, nil
}

// List returns summaries from the metadata columns, most recent first.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, name, node_count, edge_count, saved_at
		FROM workflows ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var savedAt int64
		if err := rows.Scan(&sum.Slug, &sum.Name, &sum.Nodes, &sum.Edges, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workflow row: %w", err)
		}
		sum.SavedAt = time.Unix(0, savedAt)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
