// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists annotation runs in a SQLite database so
// entity records can be reviewed and edited after the fact.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/project-lux/ner-engine/pkg/types"
)

const defaultMaxResults = 20

// Store manages the session SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the session database at cfg.DBPath, creating
// parent directories and the schema as needed.
func NewStore(cfg types.SessionConfig) (*Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("sessions", "ner.db")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			annotated_text TEXT NOT NULL,
			labels TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			label TEXT NOT NULL,
			start_pos INTEGER,
			end_pos INTEGER,
			wikidata_id TEXT,
			description TEXT,
			confidence REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_session_id ON entities(session_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores an annotation run and returns the assigned session ID.
func (s *Store) Save(ctx context.Context, text string, labels []string, result *types.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nil result")
	}

	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)
	labelsJSON, _ := json.Marshal(labels)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, text, annotated_text, labels, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, text, result.AnnotatedText, string(labelsJSON), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (session_id, position, text, label, start_pos, end_pos, wikidata_id, description, confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range result.Entities {
		_, err := stmt.ExecContext(ctx,
			id, i, e.Text, e.Label, e.StartPos, e.EndPos,
			e.WikidataID, e.Description, e.Confidence,
		)
		if err != nil {
			return "", fmt.Errorf("inserting entity %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing session: %w", err)
	}
	return id, nil
}

// Get loads one session with its entity records in document order.
func (s *Store) Get(ctx context.Context, id string) (*types.Session, error) {
	var sess types.Session
	var labelsJSON, createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, annotated_text, labels, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Text, &sess.AnnotatedText, &labelsJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if err := json.Unmarshal([]byte(labelsJSON), &sess.Labels); err != nil {
		return nil, fmt.Errorf("parsing session labels: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		sess.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT text, label, start_pos, end_pos, wikidata_id, description, confidence
		 FROM entities WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e types.Entity
		if err := rows.Scan(&e.Text, &e.Label, &e.StartPos, &e.EndPos,
			&e.WikidataID, &e.Description, &e.Confidence); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		sess.Entities = append(sess.Entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return &sess, nil
}

// List returns the most recent sessions, newest first, without their
// entity records. limit caps the count; zero or negative means the
// configured maximum.
func (s *Store) List(ctx context.Context, limit int) ([]types.Session, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, annotated_text, labels, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var sess types.Session
		var labelsJSON, createdAt string
		if err := rows.Scan(&sess.ID, &sess.Text, &sess.AnnotatedText, &labelsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal([]byte(labelsJSON), &sess.Labels); err != nil {
			return nil, fmt.Errorf("parsing session labels: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			sess.CreatedAt = t
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// EntityUpdate carries editable fields for UpdateEntity. Nil fields are
// left unchanged.
type EntityUpdate struct {
	WikidataID  *string
	Description *string
	Label       *string
	Confidence  *float64
}

// UpdateEntity applies field edits to one entity record, addressed by
// session ID and position within the session.
func (s *Store) UpdateEntity(ctx context.Context, sessionID string, position int, update EntityUpdate) error {
	set := ""
	var args []any
	appendSet := func(col string, val any) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, val)
	}

	if update.WikidataID != nil {
		appendSet("wikidata_id", *update.WikidataID)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Label != nil {
		appendSet("label", *update.Label)
	}
	if update.Confidence != nil {
		appendSet("confidence", *update.Confidence)
	}
	if set == "" {
		return fmt.Errorf("no fields to update")
	}

	args = append(args, sessionID, position)
	res, err := s.db.ExecContext(ctx,
		`UPDATE entities SET `+set+` WHERE session_id = ? AND position = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating entity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entity %d in session %s not found", position, sessionID)
	}
	return nil
}

// ExportYAML writes one session, entities included, as YAML to path.
func (s *Store) ExportYAML(ctx context.Context, id, path string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
