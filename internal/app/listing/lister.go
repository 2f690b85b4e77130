// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listing loads catalog collections for the client views.

A view mounts by calling [Lister.ListItems]; the collection is fetched once per
kind and served from the [Cache] until a mutation invalidates that kind. A fetch
failure never reaches the view: it becomes an empty collection and a
notification in the current language.
*/
package listing

import (
	"context"
	"log/slog"

	"github.com/toikana/marketplace/internal/app/notify"
	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/i18n"
)

// Source is the read side of one catalog collection.
type Source interface {
	Items(ctx context.Context) ([]catalog.Item, error)
	Item(ctx context.Context, id string) (catalog.Item, error)
}

// Lister serves catalog collections to views.
type Lister struct {
	sources  map[catalog.Kind]Source
	cache    *Cache[[]catalog.Item]
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewLister constructs a [Lister] over one source per kind.
func NewLister(sources map[catalog.Kind]Source, notifier *notify.Notifier, logger *slog.Logger) *Lister {
	return &Lister{
		sources:  sources,
		cache:    NewCache[[]catalog.Item](),
		notifier: notifier,
		logger:   logger,
	}
}

// CacheKey is the cache key of a kind's collection.
func CacheKey(kind catalog.Kind) string {
	return "catalog:" + string(kind)
}

// ListItems returns every item of kind in server order.
func (lister *Lister) ListItems(ctx context.Context, kind catalog.Kind) []catalog.Item {
	source, ok := lister.sources[kind]
	if !ok {
		lister.logger.WarnContext(ctx, "listing_unknown_kind", slog.String("kind", string(kind)))
		return []catalog.Item{}
	}

	items, err := lister.cache.Get(ctx, CacheKey(kind), source.Items)
	if err != nil {
		lister.logger.WarnContext(ctx, "listing_fetch_failed",
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
		lister.notifier.Error(i18n.KeyCatalogLoadFailed)
		return []catalog.Item{}
	}
	return items
}

// View applies the search box and price sort to the cached collection.
func (lister *Lister) View(ctx context.Context, kind catalog.Kind, search string, order catalog.SortOrder) []catalog.Item {
	return catalog.FilterAndSort(lister.ListItems(ctx, kind), search, order)
}

// Item fetches one item for a detail view. A failure notifies and reports false.
func (lister *Lister) Item(ctx context.Context, kind catalog.Kind, id string) (catalog.Item, bool) {
	source, ok := lister.sources[kind]
	if !ok {
		return nil, false
	}

	item, err := source.Item(ctx, id)
	if err != nil {
		lister.logger.WarnContext(ctx, "listing_item_failed",
			slog.String("kind", string(kind)),
			slog.String("id", id),
			slog.Any("error", err),
		)
		lister.notifier.Error(i18n.KeyErrNotFound)
		return nil, false
	}
	return item, true
}

// Invalidate drops the cached collection of kind.
func (lister *Lister) Invalidate(kind catalog.Kind) {
	lister.cache.Invalidate(CacheKey(kind))
}
