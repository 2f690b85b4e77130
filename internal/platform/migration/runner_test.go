// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestEmbedded pairs every up file with a down file.
*/
func TestEmbedded(t *testing.T) {
	names, err := fs.Glob(embedded, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups, downs := 0, 0
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups++
			_, err := fs.Stat(embedded, strings.TrimSuffix(name, ".up.sql")+".down.sql")
			assert.NoError(t, err, name)
		case strings.HasSuffix(name, ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

/*
TestPgx5URL rewrites only postgres schemes.
*/
func TestPgx5URL(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@db:5432/toikana", "pgx5://u:p@db:5432/toikana"},
		{"postgresql://db/toikana", "pgx5://db/toikana"},
		{"pgx5://db/toikana", "pgx5://db/toikana"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, pgx5URL(tt.dsn))
		})
	}
}
