// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toikana/marketplace/internal/platform/events"
	"github.com/toikana/marketplace/internal/platform/middleware"
)

// Dependencies are the collaborators shared by the three catalog kinds.
type Dependencies struct {
	Pool      *pgxpool.Pool
	Cache     ListCache
	Publisher events.Publisher
	Images    Images
	Roles     middleware.RoleLookup
	Logger    *slog.Logger
}

// RegisterRoutes mounts /places, /artists and /rentals on router.
func RegisterRoutes(router chi.Router, deps Dependencies) {
	venues := NewService[*Venue](KindPlaces, NewVenueStore(deps.Pool), deps.Cache, deps.Publisher, deps.Images, deps.Logger)
	artists := NewService[*Artist](KindArtists, NewArtistStore(deps.Pool), deps.Cache, deps.Publisher, deps.Images, deps.Logger)
	rentals := NewService[*Rental](KindRentals, NewRentalStore(deps.Pool), deps.Cache, deps.Publisher, deps.Images, deps.Logger)

	router.Mount("/"+KindPlaces.String(), NewHandler(venues, deps.Roles, venueVariant.create).Routes())
	router.Mount("/"+KindArtists.String(), NewHandler(artists, deps.Roles, artistVariant.create).Routes())
	router.Mount("/"+KindRentals.String(), NewHandler(rentals, deps.Roles, rentalVariant.create).Routes())
}
