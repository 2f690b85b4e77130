// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package draft persists unfinished create forms per catalog kind.
//
// Drafts only exist for new records; an edit form works on the stored record
// directly. Two clients racing on the same file simply overwrite each other.
package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/localstore"
)

// Draft is a snapshot of a create form.
type Draft struct {
	// Values maps writable field names (see [i18n.WritableField]) to their text.
	Values map[string]string `json:"values"`

	// Image is the pending image reference: a local file path before
	// submit, or a public URL once uploaded.
	Image string `json:"image_ref,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

// KV is the local persistence the drafts live in.
type KV interface {
	Put(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, target any) error
	Delete(ctx context.Context, key string) error
}

// Store reads and writes drafts.
type Store struct {
	kv  KV
	now func() time.Time
}

// NewStore constructs a [Store] over kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Save overwrites the draft of kind.
func (store *Store) Save(ctx context.Context, kind catalog.Kind, draft Draft) error {
	draft.SavedAt = store.now().UTC()
	if draft.Values == nil {
		draft.Values = map[string]string{}
	}
	if err := store.kv.Put(ctx, localstore.DraftKey(string(kind)), draft); err != nil {
		return fmt.Errorf("save_draft_failed: %w", err)
	}
	return nil
}

// Load returns the draft of kind. found is false when none is stored.
func (store *Store) Load(ctx context.Context, kind catalog.Kind) (draft Draft, found bool, err error) {
	err = store.kv.Get(ctx, localstore.DraftKey(string(kind)), &draft)
	switch {
	case err == nil:
		if draft.Values == nil {
			draft.Values = map[string]string{}
		}
		return draft, true, nil
	case errors.Is(err, localstore.ErrNotFound):
		return Draft{}, false, nil
	default:
		return Draft{}, false, fmt.Errorf("load_draft_failed: %w", err)
	}
}

// Clear removes the draft of kind.
func (store *Store) Clear(ctx context.Context, kind catalog.Kind) error {
	if err := store.kv.Delete(ctx, localstore.DraftKey(string(kind))); err != nil {
		return fmt.Errorf("clear_draft_failed: %w", err)
	}
	return nil
}
