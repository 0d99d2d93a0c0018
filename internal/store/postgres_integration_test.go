//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tgrenier/marketly/internal/store"
	domain "github.com/tgrenier/marketly/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("marketly_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_SavedSearchLifecycle(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	search := &domain.SavedSearch{
		Query:   "iphone 12",
		Sources: []domain.Source{domain.SourceEbay, domain.SourceKijiji},
	}
	require.NoError(t, s.CreateSavedSearch(ctx, search))
	require.NotEmpty(t, search.ID)
	require.False(t, search.CreatedAt.IsZero())

	got, err := s.GetSavedSearch(ctx, search.ID)
	require.NoError(t, err)
	assert.Equal(t, search.Query, got.Query)
	assert.Equal(t, search.Sources, got.Sources)

	list, err := s.ListSavedSearches(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, search.ID, list[0].ID)

	require.NoError(t, s.DeleteSavedSearch(ctx, search.ID))

	_, err = s.GetSavedSearch(ctx, search.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.DeleteSavedSearch(ctx, search.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_ListOrdersNewestFirst(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	for _, q := range []string{"canoe", "snow tires", "standing desk"} {
		require.NoError(t, s.CreateSavedSearch(ctx, &domain.SavedSearch{
			Query:   q,
			Sources: []domain.Source{domain.SourceKijiji},
		}))
	}

	list, err := s.ListSavedSearches(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i-1].CreatedAt.Before(list[i].CreatedAt))
	}
}
