// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toikana/marketplace/pkg/pagination"
)

/*
TestFromQuery clamps the window to sane values.
*/
func TestFromQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, pagination.DefaultLimit, 0},
		{"explicit", "page=3&limit=10", 3, 10, 20},
		{"clamped_limit", "limit=5000", 1, pagination.MaxLimit, 0},
		{"negative_page", "page=-2&limit=7", 1, 7, 0},
		{"garbage", "page=x&limit=y", 1, pagination.DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			params := pagination.FromQuery(query)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestNewMeta reports page counts and whether another page follows.
*/
func TestNewMeta(t *testing.T) {
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 20, Total: 45, TotalPages: 3, HasNext: true}, pagination.NewMeta(1, 20, 45))
	assert.Equal(t, pagination.Meta{Page: 3, Limit: 20, Total: 45, TotalPages: 3}, pagination.NewMeta(3, 20, 45))
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 20}, pagination.NewMeta(1, 20, 0))
}
