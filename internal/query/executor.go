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

// Package query executes validated, rewritten statements against the
// relational store. All safety enforcement happens before this boundary:
// the statement text is opaque here.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shyamddesai/HRChatBot/internal/audit"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single statement execution.
const DefaultTimeout = 30 * time.Second

// NullMarker substitutes for database NULL in materialized rows.
const NullMarker = "NULL"

// ErrQueryExecution wraps every store-level failure: timeouts, engine syntax
// rejections, and connection-layer permission errors all collapse into this
// one kind so internal detail never leaks to non-HR callers.
var ErrQueryExecution = errors.New("query execution failed")

// Result holds a fully materialized result set.
type Result struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Executor runs dynamic read statements with a hard timeout and records every
// execution in the audit trail.
type Executor struct {
	db      *sql.DB
	sink    audit.Sink
	logger  *zap.Logger
	timeout time.Duration
}

// NewExecutor creates an executor. A zero timeout falls back to DefaultTimeout.
func NewExecutor(db *sql.DB, sink audit.Sink, timeout time.Duration, logger *zap.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		db:      db,
		sink:    sink,
		logger:  logger,
		timeout: timeout,
	}
}

// Execute runs one statement and materializes all rows. Rows are returned
// all-or-nothing: any error during iteration discards the partial set. Every
// call, successful or not, appends an audit entry with the caller id and the
// executed SQL text.
func (e *Executor) Execute(ctx context.Context, sqlText string, args []interface{}, callerID string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.run(ctx, sqlText, args)

	rowCount := 0
	if result != nil {
		rowCount = len(result.Rows)
	}
	e.recordAudit(callerID, sqlText, rowCount)

	if err != nil {
		e.logger.Error("Dynamic query failed",
			zap.String("caller_id", callerID),
			zap.String("sql", sqlText),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrQueryExecution, err)
	}

	e.logger.Info("Dynamic query executed",
		zap.String("caller_id", callerID),
		zap.String("sql", sqlText),
		zap.Int("row_count", rowCount),
	)

	return result, nil
}

// run performs the actual query and row materialization.
func (e *Executor) run(ctx context.Context, sqlText string, args []interface{}) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: columns}

	values := make([]interface{}, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// recordAudit appends the audit entry. Audit failures are logged, never
// propagated: a broken audit sink must not take the query path down with it.
func (e *Executor) recordAudit(callerID, sqlText string, rowCount int) {
	if e.sink == nil {
		return
	}

	// Detached context: an aborted request still leaves an audit record.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := audit.Entry{
		Timestamp: time.Now().UTC(),
		CallerID:  callerID,
		SQL:       sqlText,
		RowCount:  rowCount,
	}
	if err := e.sink.Record(ctx, entry); err != nil {
		e.logger.Warn("Failed to record audit entry",
			zap.String("caller_id", callerID),
			zap.Error(err),
		)
	}
}

// normalizeValue converts driver values into formatter-friendly types.
// Byte slices become strings; NULL becomes the explicit null marker. Numeric,
// boolean and temporal values keep their native type until formatting.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return NullMarker
	case []byte:
		return string(val)
	default:
		return v
	}
}
