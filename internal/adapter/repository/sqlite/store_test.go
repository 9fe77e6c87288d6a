//go:build cgo

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthsnap-backend/internal/domain"
)

func TestStore_GetPut(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "wealthsnap.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "assets")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, store.Put(ctx, "assets", []byte(`[{"name":"Fund A"}]`)))
	require.NoError(t, store.Put(ctx, "assets", []byte(`[{"name":"Fund B"}]`)))

	got, err := store.Get(ctx, "assets")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Fund B"}]`, string(got))
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wealthsnap.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "history", []byte(`[]`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "history")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
