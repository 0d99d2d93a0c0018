package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/tgrenier/marketly/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled
// PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateSavedSearch persists a saved search and fills in its generated
// id and creation time.
func (s *PostgresStore) CreateSavedSearch(ctx context.Context, search *domain.SavedSearch) error {
	args := pgx.NamedArgs{
		"query":   search.Query,
		"sources": sourceNames(search.Sources),
	}

	err := s.pool.QueryRow(ctx, queryInsertSavedSearch, args).
		Scan(&search.ID, &search.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting saved search: %w", err)
	}
	return nil
}

// GetSavedSearch retrieves a saved search by id.
func (s *PostgresStore) GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error) {
	search := &domain.SavedSearch{}
	var names []string

	err := s.pool.QueryRow(ctx, queryGetSavedSearch, id).
		Scan(&search.ID, &search.Query, &names, &search.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting saved search: %w", err)
	}

	search.Sources = toSources(names)
	return search, nil
}

// ListSavedSearches returns all saved searches, newest first.
func (s *PostgresStore) ListSavedSearches(ctx context.Context) ([]domain.SavedSearch, error) {
	rows, err := s.pool.Query(ctx, queryListSavedSearches)
	if err != nil {
		return nil, fmt.Errorf("listing saved searches: %w", err)
	}
	defer rows.Close()

	var out []domain.SavedSearch
	for rows.Next() {
		var search domain.SavedSearch
		var names []string
		if err := rows.Scan(&search.ID, &search.Query, &names, &search.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning saved search: %w", err)
		}
		search.Sources = toSources(names)
		out = append(out, search)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saved searches: %w", err)
	}

	return out, nil
}

// DeleteSavedSearch removes a saved search by id. Deleting a missing
// record returns ErrNotFound.
func (s *PostgresStore) DeleteSavedSearch(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteSavedSearch, id)
	if err != nil {
		return fmt.Errorf("deleting saved search: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func sourceNames(sources []domain.Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = string(s)
	}
	return out
}

func toSources(names []string) []domain.Source {
	out := make([]domain.Source, len(names))
	for i, n := range names {
		out[i] = domain.Source(n)
	}
	return out
}
