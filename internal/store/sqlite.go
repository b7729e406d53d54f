// Copyright 2025 MediaGenAI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store persists job documents in an embedded SQLite database.
// The full job aggregate is stored as a JSON document column; status and
// timestamps are promoted to their own columns for querying. The document
// is written after every pipeline stage, so a concurrent reader always
// sees the latest completed stage.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mediagenai/go-trailer-service/internal/core/model"
)

// JobStore is a SQLite-backed repository for job documents.
type JobStore struct {
	db *sql.DB
}

// Open creates (or opens) the job database at the given path, ensuring
// the parent directory and schema exist.
func Open(path string) (*JobStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  status TEXT NOT NULL,
  document TEXT NOT NULL
);
`); err != nil {
		return nil, err
	}
	return &JobStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *JobStore) Close() error { return s.db.Close() }

// Put upserts the job document. Concurrent jobs have distinct ids and
// never contend on a row; within one job the pipeline writes serially.
func (s *JobStore) Put(ctx context.Context, job *model.Job) error {
	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, created_at, updated_at, status, document)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
           updated_at = excluded.updated_at,
           status = excluded.status,
           document = excluded.document`,
		job.Id,
		job.CreateDate.UnixMilli(),
		job.UpdateDate.UnixMilli(),
		string(job.Status),
		string(doc),
	)
	return err
}

// Get loads a job document by id, returning model.ErrNotFound for an
// unknown id.
func (s *JobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT document FROM jobs WHERE id = ?`, id)

	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	job := &model.Job{}
	if err := json.Unmarshal([]byte(doc), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job document %s: %w", id, err)
	}
	return job, nil
}

// CountByStatus returns job counts grouped by status, for the stats
// endpoint.
func (s *JobStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

// ListRecent returns the most recently updated jobs, newest first.
func (s *JobStore) ListRecent(ctx context.Context, limit int) ([]*model.Job, error) {
	if limit <= 0 {
		limit = 25
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM jobs ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Job
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		job := &model.Job{}
		if err := json.Unmarshal([]byte(doc), job); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}
