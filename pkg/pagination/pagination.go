// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination windows the admin user directory.
//
// Requests carry "page" (1-based) and "limit"; responses carry a [Meta] block
// so a client can walk every page until HasNext is false.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 20
	// MaxLimit caps a page. Larger requests are clamped to it.
	MaxLimit = 100
)

// Params is one requested page.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before this page.
func (params Params) Offset() int {
	return (params.Page - 1) * params.Limit
}

// Meta describes where a page sits in the full directory.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta builds the response block for page of size limit out of total rows.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}

// FromRequest reads the page window from the query string.
func FromRequest(request *http.Request) Params {
	return FromQuery(request.URL.Query())
}

// FromQuery reads "page" and "limit". Missing or non-positive values take
// their defaults; a limit above [MaxLimit] is clamped.
func FromQuery(query url.Values) Params {
	params := Params{
		Page:  positive(query.Get("page"), 1),
		Limit: positive(query.Get("limit"), DefaultLimit),
	}
	params.Limit = min(params.Limit, MaxLimit)
	return params
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
