// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
)

// # Repository Contract

// Store defines the persistence contract for one catalog kind.
type Store[T Item] interface {

	// List returns the whole collection, newest first.
	List(context context.Context) ([]T, error)

	// ListByOwner returns the listings created by ownerID, newest first.
	ListByOwner(context context.Context, ownerID string) ([]T, error)

	/*
		FindByID returns one listing.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - T: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (T, error)

	// Create inserts item. ID and OwnerID must be set; timestamps are filled in.
	Create(context context.Context, item T) error

	/*
		Update loads the listing, lets mutate change it and writes it back.

		Description: The row stays locked between the read and the write, so the
		ownership check inside mutate cannot race with a concurrent write. An
		error from mutate aborts the update and is returned unchanged.

		Parameters:
		  - context: context.Context
		  - id: string
		  - mutate: func(T) error

		Returns:
		  - T: The stored listing
		  - error: apperr.NotFound, the mutate error or storage failures
	*/
	Update(context context.Context, id string, mutate func(item T) error) (T, error)

	// Delete removes the listing after check approves it and returns the removed row.
	Delete(context context.Context, id string, check func(item T) error) (T, error)
}
