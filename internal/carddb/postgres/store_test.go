package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Set MAGICORE_TEST_POSTGRES_DSN to a disposable database to run these tests.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("MAGICORE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MAGICORE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := Open(ctx, dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, store.Truncate(ctx))
	t.Cleanup(store.Close)
	return store
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestImportAndCatalog(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.SetBatchSize(4)

	builtin := carddb.Builtin()
	result, err := store.Import(ctx, builtin.Cards())
	require.NoError(t, err)
	assert.Equal(t, builtin.Len(), result.Imported)
	assert.Zero(t, result.Failed)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, builtin.Len(), count)

	cat, err := store.Catalog(ctx)
	require.NoError(t, err)
	angel, ok := cat.FindByName("Serra Angel")
	require.True(t, ok)
	assert.Equal(t, 4, angel.BasePower())
	assert.True(t, angel.HasKeyword(carddb.KeywordFlying))
}
