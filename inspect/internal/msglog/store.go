// CLAUDE:SUMMARY Session-scoped SQLite log of resolved messages — insert, recent queries, count, truncate.
// Package msglog is the session-scoped SQLite log of resolved messages.
//
// It exists for the read surfaces (recent-message queries with paging);
// it is not a replay store. The default database is in-memory, so a
// session leaves nothing behind.
package msglog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/framewatch/dbopen"
	"github.com/hazyhaar/framewatch/graph"
	"github.com/hazyhaar/framewatch/inspect/capture"
)

// Store is the message log handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the message log at path and applies the schema.
// Pass ":memory:" (or "") for a purely in-session log.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	opts := []dbopen.Option{dbopen.WithSchema(Schema)}
	if path != ":memory:" {
		opts = append(opts, dbopen.WithMkdirAll())
	}
	db, err := dbopen.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database (testing).
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert appends one resolved message.
func (s *Store) Insert(ctx context.Context, m capture.Message) error {
	targetOwner, err := marshalOwner(m.TargetOwner)
	if err != nil {
		return fmt.Errorf("msglog: marshal target owner: %w", err)
	}
	sourceOwner, err := marshalOwner(m.SourceOwner)
	if err != nil {
		return fmt.Errorf("msglog: marshal source owner: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (
			id, tab_id, time,
			target_document_id, target_frame_id, target_url, target_origin, target_title,
			source_type, source_document_id, source_window_id, source_origin,
			target_owner, source_owner, data_preview
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.TabID, m.Time,
		m.TargetDocumentID, m.TargetFrameID, m.TargetURL, m.TargetOrigin, m.TargetTitle,
		m.SourceType, m.SourceDocumentID, m.SourceWindowID, m.SourceOrigin,
		targetOwner, sourceOwner, m.DataPreview)
	if err != nil {
		return fmt.Errorf("msglog: insert: %w", err)
	}
	return nil
}

// Recent returns messages newest-first. tabID < 0 means all tabs.
func (s *Store) Recent(ctx context.Context, tabID, limit, offset int) ([]capture.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, tab_id, time,
		       target_document_id, target_frame_id, target_url, target_origin, target_title,
		       source_type, source_document_id, source_window_id, source_origin,
		       target_owner, source_owner, data_preview
		FROM messages`
	args := []any{}
	if tabID >= 0 {
		query += ` WHERE tab_id = ?`
		args = append(args, tabID)
	}
	query += ` ORDER BY time DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("msglog: recent: %w", err)
	}
	defer rows.Close()

	var out []capture.Message
	for rows.Next() {
		var m capture.Message
		var targetOwner, sourceOwner sql.NullString
		if err := rows.Scan(&m.ID, &m.TabID, &m.Time,
			&m.TargetDocumentID, &m.TargetFrameID, &m.TargetURL, &m.TargetOrigin, &m.TargetTitle,
			&m.SourceType, &m.SourceDocumentID, &m.SourceWindowID, &m.SourceOrigin,
			&targetOwner, &sourceOwner, &m.DataPreview); err != nil {
			return nil, fmt.Errorf("msglog: scan: %w", err)
		}
		if m.TargetOwner, err = unmarshalOwner(targetOwner); err != nil {
			return nil, fmt.Errorf("msglog: target owner: %w", err)
		}
		if m.SourceOwner, err = unmarshalOwner(sourceOwner); err != nil {
			return nil, fmt.Errorf("msglog: source owner: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of logged messages. tabID < 0 means all tabs.
func (s *Store) Count(ctx context.Context, tabID int) (int, error) {
	var n int
	var err error
	if tabID >= 0 {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE tab_id = ?`, tabID).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("msglog: count: %w", err)
	}
	return n, nil
}

// Truncate removes all logged messages (session reset).
func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("msglog: truncate: %w", err)
	}
	return nil
}

func marshalOwner(o *graph.OwnerElement) (sql.NullString, error) {
	if o == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(o)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalOwner(ns sql.NullString) (*graph.OwnerElement, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var o graph.OwnerElement
	if err := json.Unmarshal([]byte(ns.String), &o); err != nil {
		return nil, err
	}
	return &o, nil
}
