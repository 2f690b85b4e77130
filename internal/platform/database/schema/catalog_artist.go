// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogArtistsTable represents the 'catalog.artists' table
type CatalogArtistsTable struct {
	Table        string
	Genre        string
	GenreKG      string
	GenreRU      string
	Experience   string
	ExperienceKG string
	ExperienceRU string
}

// CatalogArtists is the schema definition for catalog.artists
var CatalogArtists = CatalogArtistsTable{
	Table:        "catalog.artists",
	Genre:        "genre",
	GenreKG:      "genre_kg",
	GenreRU:      "genre_ru",
	Experience:   "experience",
	ExperienceKG: "experience_kg",
	ExperienceRU: "experience_ru",
}

// Columns returns the artist-specific column names
func (t CatalogArtistsTable) Columns() []string {
	return []string{t.Genre, t.GenreKG, t.GenreRU, t.Experience, t.ExperienceKG, t.ExperienceRU}
}
