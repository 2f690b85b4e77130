// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/pkg/slice"
)

// ListQuery narrows a collection request.
type ListQuery struct {
	Search string
	Sort   catalog.SortOrder
}

func (query ListQuery) encode() string {
	values := url.Values{}
	if query.Search != "" {
		values.Set(catalog.QuerySearch, query.Search)
	}
	if query.Sort != "" && query.Sort != catalog.SortDefault {
		values.Set(catalog.QuerySort, string(query.Sort))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// Catalog is the typed view of one listing collection.
type Catalog[T catalog.Item] struct {
	client *Client
	kind   catalog.Kind
	create func() T
}

// NewCatalog binds a collection to its item constructor.
func NewCatalog[T catalog.Item](c *Client, kind catalog.Kind, create func() T) *Catalog[T] {
	return &Catalog[T]{client: c, kind: kind, create: create}
}

// Venues is the places collection.
func (c *Client) Venues() *Catalog[*catalog.Venue] {
	return NewCatalog(c, catalog.KindPlaces, func() *catalog.Venue { return &catalog.Venue{} })
}

// Artists is the artists collection.
func (c *Client) Artists() *Catalog[*catalog.Artist] {
	return NewCatalog(c, catalog.KindArtists, func() *catalog.Artist { return &catalog.Artist{} })
}

// Rentals is the rentals collection.
func (c *Client) Rentals() *Catalog[*catalog.Rental] {
	return NewCatalog(c, catalog.KindRentals, func() *catalog.Rental { return &catalog.Rental{} })
}

// Collection returns the untyped view of kind, or nil for an unknown kind.
func (c *Client) Collection(kind catalog.Kind) Collection {
	switch kind {
	case catalog.KindPlaces:
		return c.Venues()
	case catalog.KindArtists:
		return c.Artists()
	case catalog.KindRentals:
		return c.Rentals()
	}
	return nil
}

// Kind returns the collection kind.
func (cat *Catalog[T]) Kind() catalog.Kind {
	return cat.kind
}

func (cat *Catalog[T]) path(suffix string) string {
	return "/" + cat.kind.String() + suffix
}

// List fetches the full collection.
func (cat *Catalog[T]) List(ctx context.Context, query ListQuery) ([]T, error) {
	items := make([]T, 0)
	err := cat.client.do(ctx, call{method: http.MethodGet, path: cat.path("") + query.encode(), out: &items})
	if err != nil {
		return nil, &PersistenceError{Op: "list_" + cat.kind.String(), Cause: err}
	}
	return items, nil
}

// Get fetches one item.
func (cat *Catalog[T]) Get(ctx context.Context, id string) (T, error) {
	item := cat.create()
	err := cat.client.do(ctx, call{method: http.MethodGet, path: cat.path("/" + url.PathEscape(id)), out: item})
	if err != nil {
		var zero T
		return zero, &PersistenceError{Op: "get_" + cat.kind.String(), Cause: err}
	}
	return item, nil
}

// Mine fetches the listings owned by the signed-in identity.
func (cat *Catalog[T]) Mine(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	err := cat.client.do(ctx, call{method: http.MethodGet, path: cat.path("/mine"), out: &items, auth: true})
	if err != nil {
		return nil, &PersistenceError{Op: "mine_" + cat.kind.String(), Cause: err}
	}
	return items, nil
}

// Create inserts an item. body is any JSON object with the item's fields.
func (cat *Catalog[T]) Create(ctx context.Context, body any) (T, error) {
	item := cat.create()
	err := cat.client.do(ctx, call{method: http.MethodPost, path: cat.path(""), body: body, out: item, auth: true})
	if err != nil {
		var zero T
		return zero, &PersistenceError{Op: "create_" + cat.kind.String(), Cause: err}
	}
	return item, nil
}

// Update patches the fields present in body.
func (cat *Catalog[T]) Update(ctx context.Context, id string, body any) (T, error) {
	item := cat.create()
	err := cat.client.do(ctx, call{method: http.MethodPatch, path: cat.path("/" + url.PathEscape(id)), body: body, out: item, auth: true})
	if err != nil {
		var zero T
		return zero, &PersistenceError{Op: "update_" + cat.kind.String(), Cause: err}
	}
	return item, nil
}

// Delete removes an item.
func (cat *Catalog[T]) Delete(ctx context.Context, id string) error {
	err := cat.client.do(ctx, call{method: http.MethodDelete, path: cat.path("/" + url.PathEscape(id)), auth: true})
	if err != nil {
		return &PersistenceError{Op: "delete_" + cat.kind.String(), Cause: err}
	}
	return nil
}

// # Untyped Access

// Collection is the kind-agnostic view used by listing, forms and admin screens.
type Collection interface {
	Kind() catalog.Kind
	Items(ctx context.Context) ([]catalog.Item, error)
	Item(ctx context.Context, id string) (catalog.Item, error)
	CreateItem(ctx context.Context, fields map[string]any) (catalog.Item, error)
	UpdateItem(ctx context.Context, id string, fields map[string]any) (catalog.Item, error)
	Delete(ctx context.Context, id string) error
}

// Items implements [Collection].
func (cat *Catalog[T]) Items(ctx context.Context) ([]catalog.Item, error) {
	items, err := cat.List(ctx, ListQuery{})
	if err != nil {
		return nil, err
	}
	return toItems(items), nil
}

// Item implements [Collection].
func (cat *Catalog[T]) Item(ctx context.Context, id string) (catalog.Item, error) {
	return cat.Get(ctx, id)
}

// CreateItem implements [Collection].
func (cat *Catalog[T]) CreateItem(ctx context.Context, fields map[string]any) (catalog.Item, error) {
	return cat.Create(ctx, fields)
}

// UpdateItem implements [Collection].
func (cat *Catalog[T]) UpdateItem(ctx context.Context, id string, fields map[string]any) (catalog.Item, error) {
	return cat.Update(ctx, id, fields)
}

func toItems[T catalog.Item](items []T) []catalog.Item {
	return slice.Map(items, func(item T) catalog.Item { return item })
}
