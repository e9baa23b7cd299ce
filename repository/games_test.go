package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleleafu/games-service/models"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), Options{
		DSN:          "sqlite:" + filepath.Join(t.TempDir(), "games.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		Logger:       zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRequiresConnectionString(t *testing.T) {
	_, err := Open(context.Background(), Options{DSN: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection string is required")
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), Options{DSN: "mysql://localhost/games"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported connection string")
}

func TestOpenIsIdempotentOnExistingSchema(t *testing.T) {
	dsn := "sqlite:" + filepath.Join(t.TempDir(), "games.db")

	first, err := Open(context.Background(), Options{DSN: dsn, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.NoError(t, first.CreateGame(context.Background(), models.Game{ID: 7, Dimensions: models.Dimensions{X: 2, Y: 2}}))
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), Options{DSN: dsn, Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer second.Close()

	games, err := second.ListGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Game{{ID: 7, Dimensions: models.Dimensions{X: 2, Y: 2}}}, games)
}

func TestInMemoryStoreKeepsDataWithZeroPoolOptions(t *testing.T) {
	store, err := Open(context.Background(), Options{DSN: "sqlite::memory:", Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer store.Close()

	stats := store.sqlDB.Stats()
	assert.Equal(t, 1, stats.MaxOpenConnections)

	ctx := context.Background()
	game := models.Game{ID: 3, Dimensions: models.Dimensions{X: 4, Y: 5}}
	require.NoError(t, store.CreateGame(ctx, game))

	for i := 0; i < 3; i++ {
		games, err := store.ListGames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Game{game}, games)
	}
	assert.Zero(t, store.sqlDB.Stats().MaxIdleClosed)
}

func TestZeroPoolOptionsKeepIdleConnections(t *testing.T) {
	store, err := Open(context.Background(), Options{
		DSN:    "sqlite:" + filepath.Join(t.TempDir(), "games.db"),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 3; i++ {
		_, err := store.ListGames(context.Background())
		require.NoError(t, err)
	}
	assert.Zero(t, store.sqlDB.Stats().MaxIdleClosed)
}

func TestListGamesEmptyStore(t *testing.T) {
	store := openTempStore(t)

	games, err := store.ListGames(context.Background())
	require.NoError(t, err)
	require.NotNil(t, games)
	assert.Empty(t, games)
}

func TestCreateAndListGames(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	want := []models.Game{
		{ID: 1, Dimensions: models.Dimensions{X: 3, Y: 3}},
		{ID: 2, Dimensions: models.Dimensions{X: -4, Y: 0}},
		{ID: 9_000_000_000, Dimensions: models.Dimensions{X: 2147483647, Y: -2147483648}},
	}
	for _, game := range want {
		require.NoError(t, store.CreateGame(ctx, game))
	}

	got, err := store.ListGames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)
}

func TestListGamesTwiceReturnsSameSet(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	for id := int64(1); id <= 5; id++ {
		require.NoError(t, store.CreateGame(ctx, models.Game{ID: id, Dimensions: models.Dimensions{X: int32(id), Y: 1}}))
	}

	first, err := store.ListGames(ctx)
	require.NoError(t, err)
	second, err := store.ListGames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, first, second)
}

func TestCreateGameDuplicateIsConflictAndKeepsRow(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	original := models.Game{ID: 1, Dimensions: models.Dimensions{X: 3, Y: 3}}
	require.NoError(t, store.CreateGame(ctx, original))

	err := store.CreateGame(ctx, models.Game{ID: 1, Dimensions: models.Dimensions{X: 10, Y: 10}})
	require.Error(t, err)
	assert.True(t, IsConflict(err), "want conflict, got %v", err)
	assert.False(t, IsUnavailable(err))

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "create game", storageErr.Op)

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Game{original}, games)
}

func TestConcurrentDuplicateCreatesOnlyOneWins(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.CreateGame(ctx, models.Game{ID: 42, Dimensions: models.Dimensions{X: int32(i), Y: int32(i)}})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if IsConflict(err) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestCanceledContextIsUnavailable(t *testing.T) {
	store := openTempStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ListGames(ctx)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err), "want unavailable, got %v", err)

	err = store.CreateGame(ctx, models.Game{ID: 1})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err), "want unavailable, got %v", err)
}
