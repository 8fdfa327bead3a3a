// Copyright 2026 HRChatBot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Entry is one append-only audit record of an executed statement.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	CallerID  string    `json:"caller_id"`
	SQL       string    `json:"sql"`
	RowCount  int       `json:"row_count"`
}

// Sink records executed statements for compliance review.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// Store is a sqlite-backed append-only audit sink.
type Store struct {
	db *sql.DB
}

// NewStore creates an audit store on an existing database handle and ensures
// the audit table exists.
func NewStore(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return store, nil
}

// initSchema creates the audit table if it doesn't exist
func (s *Store) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at DATETIME NOT NULL,
			caller_id TEXT NOT NULL,
			statement TEXT NOT NULL,
			row_count INTEGER NOT NULL
		)
	`

	_, err := s.db.Exec(query)
	return err
}

// Record appends one audit entry.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO audit_log (recorded_at, caller_id, statement, row_count)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.Timestamp.UTC(), entry.CallerID, entry.SQL, entry.RowCount)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// Tail returns the most recent n audit entries, newest first.
func (s *Store) Tail(ctx context.Context, n int) ([]Entry, error) {
	query := `
		SELECT recorded_at, caller_id, statement, row_count
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Timestamp, &entry.CallerID, &entry.SQL, &entry.RowCount); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return entries, nil
}
