// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogPlacesTable represents the 'catalog.places' table
type CatalogPlacesTable struct {
	Table     string
	Address   string
	AddressKG string
	AddressRU string
	Capacity  string
}

// CatalogPlaces is the schema definition for catalog.places
var CatalogPlaces = CatalogPlacesTable{
	Table:     "catalog.places",
	Address:   "address",
	AddressKG: "address_kg",
	AddressRU: "address_ru",
	Capacity:  "capacity",
}

// Columns returns the venue-specific column names
func (t CatalogPlacesTable) Columns() []string {
	return []string{t.Address, t.AddressKG, t.AddressRU, t.Capacity}
}
