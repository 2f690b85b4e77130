// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/events"
	"github.com/toikana/marketplace/internal/platform/objstore"
	"github.com/toikana/marketplace/internal/platform/sec"
)

const (
	adminID   = "0198f0a2-0000-7000-8000-00000000000a"
	partnerID = "0198f0a2-0000-7000-8000-00000000000b"
	otherID   = "0198f0a2-0000-7000-8000-00000000000c"
	userID    = "0198f0a2-0000-7000-8000-00000000000d"

	imageBase = "https://cdn.toikana.kg"
	bucket    = "listing-images"
)

var (
	admin   = &sec.Principal{ID: adminID, Role: sec.RoleAdmin}
	partner = &sec.Principal{ID: partnerID, Role: sec.RolePartner}
	other   = &sec.Principal{ID: otherID, Role: sec.RolePartner}
)

// # In-memory store

// memoryStore keeps JSON copies so a failed mutate never leaks into storage.
type memoryStore[T catalog.Item] struct {
	mu     sync.Mutex
	create func() T
	rows   []string
	data   map[string][]byte
	lists  int
}

func newMemoryStore[T catalog.Item](create func() T) *memoryStore[T] {
	return &memoryStore[T]{create: create, data: map[string][]byte{}}
}

func (store *memoryStore[T]) decode(id string) T {
	item := store.create()
	_ = json.Unmarshal(store.data[id], item)
	return item
}

func (store *memoryStore[T]) save(item T) {
	payload, _ := json.Marshal(item)
	store.data[item.Base().ID] = payload
}

func (store *memoryStore[T]) List(_ context.Context) ([]T, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lists++
	items := make([]T, 0, len(store.rows))
	for i := len(store.rows) - 1; i >= 0; i-- {
		items = append(items, store.decode(store.rows[i]))
	}
	return items, nil
}

func (store *memoryStore[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	all, _ := store.List(ctx)
	owned := make([]T, 0)
	for _, item := range all {
		if item.Base().OwnerID == ownerID {
			owned = append(owned, item)
		}
	}
	return owned, nil
}

func (store *memoryStore[T]) FindByID(_ context.Context, id string) (T, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.data[id]; !ok {
		var zero T
		return zero, apperr.NotFound("Listing")
	}
	return store.decode(id), nil
}

func (store *memoryStore[T]) Create(_ context.Context, item T) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	base := item.Base()
	base.CreatedAt = time.Now()
	base.UpdatedAt = base.CreatedAt
	store.rows = append(store.rows, base.ID)
	store.save(item)
	return nil
}

func (store *memoryStore[T]) Update(_ context.Context, id string, mutate func(item T) error) (T, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var zero T
	if _, ok := store.data[id]; !ok {
		return zero, apperr.NotFound("Listing")
	}
	item := store.decode(id)
	if err := mutate(item); err != nil {
		return zero, err
	}
	item.Base().UpdatedAt = time.Now()
	store.save(item)
	return item, nil
}

func (store *memoryStore[T]) Delete(_ context.Context, id string, check func(item T) error) (T, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var zero T
	if _, ok := store.data[id]; !ok {
		return zero, apperr.NotFound("Listing")
	}
	item := store.decode(id)
	if err := check(item); err != nil {
		return zero, err
	}
	delete(store.data, id)
	for i, row := range store.rows {
		if row == id {
			store.rows = append(store.rows[:i], store.rows[i+1:]...)
			break
		}
	}
	return item, nil
}

// # In-memory cache

type memoryCache struct {
	mu          sync.Mutex
	entries     map[catalog.Kind][]byte
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[catalog.Kind][]byte{}}
}

func (cache *memoryCache) Load(_ context.Context, kind catalog.Kind, target any) (bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	payload, ok := cache.entries[kind]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, target)
}

func (cache *memoryCache) Store(_ context.Context, kind catalog.Kind, value any) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	payload, err := json.Marshal(value)
	cache.entries[kind] = payload
	return err
}

func (cache *memoryCache) Invalidate(_ context.Context, kind catalog.Kind) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.entries, kind)
	cache.invalidated++
	return nil
}

// # Fixture

type fixture struct {
	service  *catalog.Service[*catalog.Venue]
	store    *memoryStore[*catalog.Venue]
	cache    *memoryCache
	recorder *events.Recorder
	images   *objstore.Memory
}

func newVenue() *catalog.Venue { return &catalog.Venue{} }

func newFixture() *fixture {
	f := &fixture{
		store:    newMemoryStore(newVenue),
		cache:    newMemoryCache(),
		recorder: &events.Recorder{},
		images:   objstore.NewMemory(imageBase),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = catalog.NewService[*catalog.Venue](catalog.KindPlaces, f.store, f.cache, f.recorder, catalog.Images{Store: f.images, Bucket: bucket}, logger)
	return f
}
