// Package search runs unified searches: concurrent fan-out across the
// registered marketplace connectors, relevance scoring, ranking, and a
// short-TTL result cache.
package search

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tgrenier/marketly/internal/cache/memory"
	"github.com/tgrenier/marketly/internal/connector"
	"github.com/tgrenier/marketly/internal/metrics"
	"github.com/tgrenier/marketly/pkg/logger"
	score "github.com/tgrenier/marketly/pkg/scorer"
	domain "github.com/tgrenier/marketly/pkg/types"
)

const (
	// DefaultCacheTTL is how long a ranked result set stays fresh.
	DefaultCacheTTL = 60 * time.Second

	// DefaultMaxLimit caps how many listings a single search returns.
	DefaultMaxLimit = 50
)

// Service orchestrates searches across connectors. Connector failures
// never surface to the caller: a source that cannot produce listings
// contributes an empty slice and the rest of the result stands.
type Service struct {
	registry *connector.Registry
	cache    *memory.Cache[[]domain.Listing]
	ttl      time.Duration
	maxLimit int
	log      *slog.Logger

	// group collapses concurrent identical requests into one fan-out.
	group singleflight.Group
}

// Option configures the Service.
type Option func(*Service)

// WithCacheTTL overrides the default result cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithMaxLimit overrides the default result size cap.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		s.maxLimit = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// NewService creates a search service over the given connector registry
// and result cache.
func NewService(registry *connector.Registry, cache *memory.Cache[[]domain.Listing], opts ...Option) *Service {
	s := &Service{
		registry: registry,
		cache:    cache,
		ttl:      DefaultCacheTTL,
		maxLimit: DefaultMaxLimit,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxLimit reports the largest limit a search accepts.
func (s *Service) MaxLimit() int {
	return s.maxLimit
}

// Sources lists the sources the service can search, sorted by name.
func (s *Service) Sources() []domain.Source {
	return s.registry.Sources()
}

// Search runs a unified search: fan out to the requested sources,
// merge in the order the caller named them, score against the query,
// rank by score descending, and truncate to limit. Results are cached
// by (query, sources, limit); a fresh cache entry is returned verbatim
// with no re-fetch and no re-score.
//
// Sources with no registered connector are skipped. An empty sources
// slice means every registered source.
func (s *Service) Search(ctx context.Context, query string, sources []domain.Source, limit int) []domain.Listing {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	if len(sources) == 0 {
		sources = s.registry.Sources()
	}

	key := fingerprint(query, sources, limit)

	if cached, ok := s.cache.Get(key); ok {
		metrics.SearchCacheHitsTotal.Inc()
		s.log.Debug("search cache hit", "query", query, "results", len(cached))
		return cached
	}
	metrics.SearchCacheMissesTotal.Inc()

	results, _, _ := s.group.Do(key, func() (any, error) {
		ranked := s.fanOut(ctx, query, sources, limit)
		s.cache.Set(key, ranked, s.ttl)
		return ranked, nil
	})

	listings := results.([]domain.Listing)
	s.log.Info("search completed",
		"query", query,
		"sources", len(sources),
		"results", len(listings),
		"duration", time.Since(start),
	)
	return listings
}

// fanOut queries every requested source concurrently, then reassembles
// the partial results in the caller's source order so that ranking ties
// resolve deterministically.
func (s *Service) fanOut(ctx context.Context, query string, sources []domain.Source, limit int) []domain.Listing {
	buckets := make([][]domain.Listing, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		conn, ok := s.registry.Get(src)
		if !ok {
			s.log.Warn("skipping unknown source", "source", src)
			continue
		}
		g.Go(func() error {
			buckets[i] = conn.Search(gctx, query, limit)
			return nil
		})
	}
	// Connectors absorb their own failures, so the only wait outcome
	// is completion.
	_ = g.Wait()

	merged := make([]domain.Listing, 0, limit)
	for _, bucket := range buckets {
		merged = append(merged, bucket...)
	}

	for i := range merged {
		merged[i].Score, merged[i].ScoreReason = score.Score(
			query,
			merged[i].Title,
			merged[i].Snippet,
			merged[i].HasPrice(),
		)
	}

	// Stable keeps source order for equal scores.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
