// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogListingColumns holds the columns every catalog table shares.
type CatalogListingColumns struct {
	ID            string
	OwnerID       string
	Name          string
	NameKG        string
	NameRU        string
	Description   string
	DescriptionKG string
	DescriptionRU string
	Price         string
	Rating        string
	ImageURL      string
	CreatedAt     string
	UpdatedAt     string
}

// Listing is the shared column set of catalog.places, catalog.artists and catalog.rentals.
var Listing = CatalogListingColumns{
	ID:            "id",
	OwnerID:       "owner_id",
	Name:          "name",
	NameKG:        "name_kg",
	NameRU:        "name_ru",
	Description:   "description",
	DescriptionKG: "description_kg",
	DescriptionRU: "description_ru",
	Price:         "price",
	Rating:        "rating",
	ImageURL:      "image_url",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

// Columns returns the shared columns in scan order.
func (t CatalogListingColumns) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Name, t.NameKG, t.NameRU, t.Description, t.DescriptionKG, t.DescriptionRU,
		t.Price, t.Rating, t.ImageURL, t.CreatedAt, t.UpdatedAt,
	}
}

// Mutable returns the shared columns written by insert and update, in bind order.
func (t CatalogListingColumns) Mutable() []string {
	return []string{
		t.Name, t.NameKG, t.NameRU, t.Description, t.DescriptionKG, t.DescriptionRU, t.Price, t.ImageURL,
	}
}
