// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogRentalsTable represents the 'catalog.rentals' table
type CatalogRentalsTable struct {
	Table   string
	Specs   string
	SpecsKG string
	SpecsRU string
}

// CatalogRentals is the schema definition for catalog.rentals
var CatalogRentals = CatalogRentalsTable{
	Table:   "catalog.rentals",
	Specs:   "specs",
	SpecsKG: "specs_kg",
	SpecsRU: "specs_ru",
}

// Columns returns the rental-specific column names
func (t CatalogRentalsTable) Columns() []string {
	return []string{t.Specs, t.SpecsKG, t.SpecsRU}
}
