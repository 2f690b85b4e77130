// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/toikana/marketplace/pkg/slice"
)

// # Search & Sort

// SortOrder is the price ordering requested by the catalog view.
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// ParseSort maps a query value to a [SortOrder]; anything unknown is [SortDefault].
func ParseSort(value string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(value))) {
	case SortPriceAsc, "asc":
		return SortPriceAsc
	case SortPriceDesc, "desc":
		return SortPriceDesc
	}
	return SortDefault
}

// PriceValue parses the free-text price for ordering. Unparsable prices are 0.
func PriceValue(price string) float64 {
	cleaned := strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(strings.TrimSpace(price))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

/*
FilterAndSort applies the catalog search box and price ordering.

Description: The search is a case-insensitive substring match against the base
name or base description only; shadow values are not searched. Sorting is
stable, so equal prices keep their original order, and [SortDefault] keeps the
input order. The input slice is never modified.

Parameters:
  - items: []T
  - search: string (blank matches everything)
  - order: SortOrder

Returns:
  - []T: A new, never nil, slice
*/
func FilterAndSort[T Item](items []T, search string, order SortOrder) []T {
	needle := strings.ToLower(strings.TrimSpace(search))

	result := slice.Filter(items, func(item T) bool {
		if needle == "" {
			return true
		}
		base := item.Base()
		return strings.Contains(strings.ToLower(base.Name), needle) ||
			strings.Contains(strings.ToLower(base.Description), needle)
	})

	switch order {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return PriceValue(result[i].Base().Price) < PriceValue(result[j].Base().Price)
		})
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return PriceValue(result[i].Base().Price) > PriceValue(result[j].Base().Price)
		})
	}

	return result
}
