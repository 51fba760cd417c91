// Copyright 2025 Poiesic Systems
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


// Package sqlite provides a SQLite-backed storage.BlobStore.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/skinshelf/storage"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS blobs (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

const upsertBlob = `INSERT INTO blobs (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// Store implements storage.BlobStore on a single SQLite table.
type Store struct {
	db     *sql.DB
	closed atomic.Bool
	logger *slog.Logger
}

var _ storage.BlobStore = (*Store)(nil)

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single connection: SQLite allows one writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "sqlite"),
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// GetBlob implements storage.BlobStore.
func (s *Store) GetBlob(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, storage.ErrStorageClosed
	}
	if key == "" {
		return nil, storage.ErrEmptyKey
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// SetBlob implements storage.BlobStore.
func (s *Store) SetBlob(ctx context.Context, key string, value []byte) error {
	return s.SetBlobs(ctx, map[string][]byte{key: value})
}

// SetBlobs writes every entry in one transaction.
func (s *Store) SetBlobs(ctx context.Context, blobs map[string][]byte) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	for key := range blobs {
		if key == "" {
			return storage.ErrEmptyKey
		}
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range blobs {
			if value == nil {
				value = []byte{}
			}
			if _, err := tx.ExecContext(ctx, upsertBlob, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveBlob deletes keys in one transaction. Missing keys are ignored.
func (s *Store) RemoveBlob(ctx context.Context, keys ...string) error {
	if s.closed.Load() {
		return storage.ErrStorageClosed
	}
	if len(keys) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, key := range keys {
			if key == "" {
				return storage.ErrEmptyKey
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", "err", rbErr)
		}
		return err
	}
	return tx.Commit()
}
