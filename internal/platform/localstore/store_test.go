// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package localstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/localstore"
)

func openStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

/*
TestStore_RoundTrip verifies JSON values survive Put and Get.
*/
func TestStore_RoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	type payload struct {
		Values map[string]string `json:"values"`
		Image  string            `json:"image"`
	}

	in := payload{Values: map[string]string{"name": "Ордо"}, Image: "/tmp/a.png"}
	require.NoError(t, store.Put(ctx, localstore.DraftKey("venue"), in))

	var out payload
	require.NoError(t, store.Get(ctx, localstore.DraftKey("venue"), &out))
	assert.Equal(t, in, out)

	has, err := store.Has(ctx, localstore.DraftKey("venue"))
	require.NoError(t, err)
	assert.True(t, has)
}

/*
TestStore_Missing verifies absent keys and deletes.
*/
func TestStore_Missing(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var value string
	assert.ErrorIs(t, store.Get(ctx, localstore.KeyLanguage, &value), localstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, localstore.KeyLanguage, "ru"))
	require.NoError(t, store.Delete(ctx, localstore.KeyLanguage))
	require.NoError(t, store.Delete(ctx, localstore.KeyLanguage))

	has, err := store.Has(ctx, localstore.KeyLanguage)
	require.NoError(t, err)
	assert.False(t, has)
}

/*
TestStore_Reopen verifies values persist across process restarts.
*/
func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := localstore.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, localstore.KeyLanguage, "ru"))
	require.NoError(t, store.Close())

	store, err = localstore.Open(path)
	require.NoError(t, err)
	defer store.Close()

	var lang string
	require.NoError(t, store.Get(ctx, localstore.KeyLanguage, &lang))
	assert.Equal(t, "ru", lang)
}

/*
TestOpen_RequiresPath rejects blank paths.
*/
func TestOpen_RequiresPath(t *testing.T) {
	_, err := localstore.Open("  ")
	assert.Error(t, err)
}
