// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog manages the three kinds of marketplace listings: venues,
performing artists and rental equipment.

Every listing shares one shape (owner, bilingual name and description, free
text price, rating, image) and adds its own bilingual fields. The three kinds
are served by one generic service and handler, parameterized by the concrete
entity type.

# Architecture

  - Entities: Listing (shared), Venue, Artist, Rental.
  - Query: [FilterAndSort] applies search text and price ordering to a full collection.
  - Storage: PostgreSQL tables catalog.places, catalog.artists, catalog.rentals.
  - Cache: full collections per kind in Redis, invalidated on every write of that kind.
  - Authorization: partner and admin roles reach the write endpoints; each write
    additionally passes [sec.CanManageOwnedResource].
*/
package catalog

import (
	"strings"

	"github.com/toikana/marketplace/pkg/slice"
)

// # Kinds

// Kind names a listing collection. Its value is also the URL segment.
type Kind string

const (
	KindPlaces  Kind = "places"
	KindArtists Kind = "artists"
	KindRentals Kind = "rentals"
)

// Kinds lists every collection in display order.
func Kinds() []Kind {
	return []Kind{KindPlaces, KindArtists, KindRentals}
}

// KindStrings is [Kinds] as plain strings.
func KindStrings() []string {
	return slice.Map(Kinds(), Kind.String)
}

// ParseKind accepts a collection name, singular forms included.
func ParseKind(value string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "places", "place", "venue", "venues":
		return KindPlaces, true
	case "artists", "artist":
		return KindArtists, true
	case "rentals", "rental":
		return KindRentals, true
	}
	return "", false
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	return string(k)
}

// # Events

// ItemChanged is the payload of catalog.item.* events.
type ItemChanged struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// Query parameter names.
const (
	QuerySearch = "q"
	QuerySort   = "sort"
)
