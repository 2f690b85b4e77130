// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package localstore is the terminal client's local key/value persistence.

One bbolt file holds everything the client remembers between runs: the UI
language, the persisted session handle and the per-kind form drafts. Values
are stored as JSON under plain string keys. Last write wins; there is no
cross-process locking beyond bbolt's own file lock.
*/
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const stateBucket = "state"

// Well-known keys.
const (
	KeyLanguage = "ui:language"
	KeySession  = "auth:session"
)

// DraftKey namespaces a draft under its form type.
func DraftKey(kind string) string {
	return "draft:" + kind
}

// ErrNotFound is returned when a key holds no value.
var ErrNotFound = errors.New("localstore: key not found")

// Store provides a bbolt-backed key/value store.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("localstore: path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return nil, fmt.Errorf("localstore: create dir: %w", err)
	}

	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("localstore: open db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put marshals value as JSON and stores it under key.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("localstore: key is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: marshal %q: %w", key, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Put([]byte(key), payload)
	})
}

// Get decodes the JSON value stored under key into target.
//
// Returns [ErrNotFound] when the key is absent.
func (s *Store) Get(ctx context.Context, key string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.View(func(tx *bbolt.Tx) error {
		payload := tx.Bucket([]byte(stateBucket)).Get([]byte(key))
		if payload == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("localstore: unmarshal %q: %w", key, err)
		}
		return nil
	})
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Delete([]byte(key))
	})
}

// Has reports whether key holds a value.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	var raw json.RawMessage
	err := s.Get(ctx, key, &raw)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(stateBucket)); err != nil {
			return fmt.Errorf("localstore: create bucket: %w", err)
		}
		return nil
	})
}
