// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/toikana/marketplace/internal/platform/apperr"
	"github.com/toikana/marketplace/internal/platform/ctxutil"
	"github.com/toikana/marketplace/internal/platform/events"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/objstore"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/pkg/uuid"
)

// Images locates the bucket holding listing images.
type Images struct {
	Store  objstore.Store
	Bucket string
}

// Service implements the catalog use cases for one kind.
type Service[T Item] struct {
	kind      Kind
	store     Store[T]
	cache     ListCache
	publisher events.Publisher
	images    Images
	logger    *slog.Logger
}

// NewService constructs a catalog [Service]. A nil cache or publisher disables that concern.
func NewService[T Item](kind Kind, store Store[T], cache ListCache, publisher events.Publisher, images Images, logger *slog.Logger) *Service[T] {
	if cache == nil {
		cache = NoCache{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service[T]{
		kind:      kind,
		store:     store,
		cache:     cache,
		publisher: publisher,
		images:    images,
		logger:    logger.With(slog.String("kind", kind.String())),
	}
}

// Kind returns the collection served.
func (service *Service[T]) Kind() Kind {
	return service.kind
}

func errNotOwner() error {
	return apperr.Forbidden("Only the owner or an admin can change this listing").WithKey(i18n.KeyErrNotOwner)
}

// # Queries

/*
List returns the collection filtered by search and ordered by price.

Description: The unfiltered collection comes from the cache when present. A
cache failure only costs a database read.

Parameters:
  - context: context.Context
  - search: string
  - order: SortOrder

Returns:
  - []T: Filtered collection (never nil)
  - error: Storage failures
*/
func (service *Service[T]) List(context context.Context, search string, order SortOrder) ([]T, error) {
	items, err := service.collection(context)
	if err != nil {
		return nil, err
	}
	return FilterAndSort(items, search, order), nil
}

func (service *Service[T]) collection(context context.Context) ([]T, error) {
	var cached []T
	hit, err := service.cache.Load(context, service.kind, &cached)
	if err != nil {
		service.logger.WarnContext(context, "catalog_cache_load_failed", slog.String("error", err.Error()))
	}
	if hit {
		return cached, nil
	}

	items, err := service.store.List(context)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_list_failed: %w", err)
	}

	if err := service.cache.Store(context, service.kind, items); err != nil {
		service.logger.WarnContext(context, "catalog_cache_store_failed", slog.String("error", err.Error()))
	}

	return items, nil
}

// Get returns one listing.
func (service *Service[T]) Get(context context.Context, id string) (T, error) {
	if !uuid.Valid(id) {
		var zero T
		return zero, apperr.NotFound("Listing").WithKey(i18n.KeyErrNotFound)
	}
	return service.store.FindByID(context, id)
}

// Mine returns the listings owned by the caller.
func (service *Service[T]) Mine(context context.Context, principal *sec.Principal) ([]T, error) {
	items, err := service.store.ListByOwner(context, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_mine_failed: %w", err)
	}
	return items, nil
}

// # Commands

/*
Create publishes a new listing owned by the caller.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (partner or admin)
  - item: T (ID, OwnerID, Rating and timestamps are ignored)

Returns:
  - T: The stored listing
  - error: Validation or storage failures
*/
func (service *Service[T]) Create(context context.Context, principal *sec.Principal, item T) (T, error) {
	base := item.Base()
	base.ID = uuid.New()
	base.OwnerID = principal.ID
	base.Rating = 0

	if err := Validate(ctxutil.GetLanguage(context), item); err != nil {
		return item, err
	}

	if err := service.store.Create(context, item); err != nil {
		return item, fmt.Errorf("catalog_service_create_failed: %w", err)
	}

	service.afterWrite(context, events.TypeCatalogItemCreated, principal, base)
	return item, nil
}

/*
Update changes a listing the caller manages.

Description: mutate receives the stored listing; the immutable fields (ID,
OwnerID, Rating, CreatedAt) are restored afterwards, so a patch cannot move a
listing to another owner. A replaced image is removed from storage.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - id: string
  - mutate: func(T) error (applies the patch)

Returns:
  - T: The stored listing
  - error: NotFound, Forbidden (not the owner), validation or storage failures
*/
func (service *Service[T]) Update(context context.Context, principal *sec.Principal, id string, mutate func(item T) error) (T, error) {
	if !uuid.Valid(id) {
		var zero T
		return zero, apperr.NotFound("Listing").WithKey(i18n.KeyErrNotFound)
	}

	var previousImage string

	updated, err := service.store.Update(context, id, func(item T) error {
		base := item.Base()
		if !sec.CanManageOwnedResource(principal, base.OwnerID) {
			return errNotOwner()
		}

		previousImage = base.Image()
		immutable := *base

		if err := mutate(item); err != nil {
			return err
		}

		base.ID = immutable.ID
		base.OwnerID = immutable.OwnerID
		base.Rating = immutable.Rating
		base.CreatedAt = immutable.CreatedAt

		return Validate(ctxutil.GetLanguage(context), item)
	})
	if err != nil {
		return updated, err
	}

	if previousImage != "" && previousImage != updated.Base().Image() {
		service.removeImage(context, previousImage)
	}

	service.afterWrite(context, events.TypeCatalogItemUpdated, principal, updated.Base())
	return updated, nil
}

/*
Delete removes a listing the caller manages, then its image (best effort).

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - id: string

Returns:
  - error: NotFound, Forbidden (not the owner) or storage failures
*/
func (service *Service[T]) Delete(context context.Context, principal *sec.Principal, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound("Listing").WithKey(i18n.KeyErrNotFound)
	}

	removed, err := service.store.Delete(context, id, func(item T) error {
		if !sec.CanManageOwnedResource(principal, item.Base().OwnerID) {
			return errNotOwner()
		}
		return nil
	})
	if err != nil {
		return err
	}

	if image := removed.Base().Image(); image != "" {
		service.removeImage(context, image)
	}

	service.afterWrite(context, events.TypeCatalogItemDeleted, principal, removed.Base())
	return nil
}

// # Helpers

func (service *Service[T]) afterWrite(context context.Context, eventType string, principal *sec.Principal, base *Listing) {
	if err := service.cache.Invalidate(context, service.kind); err != nil {
		service.logger.WarnContext(context, "catalog_cache_invalidate_failed", slog.String("error", err.Error()))
	}

	events.PublishQuietly(context, service.publisher, service.logger, events.New(
		eventType,
		principal.ID,
		ItemChanged{Kind: service.kind, ID: base.ID, OwnerID: base.OwnerID},
	))

	service.logger.InfoContext(context, "catalog_item_written",
		slog.String("event", eventType),
		slog.String("item_id", base.ID),
		slog.String("actor_id", principal.ID),
	)
}

// removeImage deletes an image object when the URL points into the listing bucket.
func (service *Service[T]) removeImage(context context.Context, publicURL string) {
	if service.images.Store == nil {
		return
	}

	path, ok := service.images.Store.ObjectPath(service.images.Bucket, publicURL)
	if !ok {
		return
	}

	if err := service.images.Store.Remove(context, service.images.Bucket, []string{path}); err != nil {
		service.logger.WarnContext(context, "catalog_image_remove_failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
