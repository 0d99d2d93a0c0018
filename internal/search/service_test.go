package search

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgrenier/marketly/internal/cache/memory"
	"github.com/tgrenier/marketly/internal/connector"
	domain "github.com/tgrenier/marketly/pkg/types"
)

// stubConnector returns canned listings and counts invocations.
type stubConnector struct {
	source   domain.Source
	listings []domain.Listing
	calls    atomic.Int64
}

func (s *stubConnector) Source() domain.Source {
	return s.source
}

func (s *stubConnector) Search(_ context.Context, _ string, limit int) []domain.Listing {
	s.calls.Add(1)
	if len(s.listings) > limit {
		return s.listings[:limit]
	}
	return s.listings
}

func listing(source domain.Source, id, title, snippet string, price *float64) domain.Listing {
	l := domain.Listing{
		Source:          source,
		SourceListingID: id,
		Title:           title,
		URL:             "https://example.com/" + id,
		Snippet:         snippet,
	}
	if price != nil {
		l.Price = &domain.Money{Amount: *price, Currency: "CAD"}
	}
	return l
}

func ptr(f float64) *float64 { return &f }

func newTestService(t *testing.T, connectors ...connector.Connector) *Service {
	t.Helper()
	return NewService(
		connector.NewRegistry(connectors...),
		memory.New[[]domain.Listing](),
	)
}

func TestSearchRanksAcrossSources(t *testing.T) {
	t.Parallel()

	ebay := &stubConnector{
		source: domain.SourceEbay,
		listings: []domain.Listing{
			listing(domain.SourceEbay, "e1", "iPhone 12 64GB Blue Unlocked", "Lightly used iPhone 12.", ptr(249.99)),
			listing(domain.SourceEbay, "e2", "iPhone 12 screen repair parts", "Broken screen replacement parts.", ptr(19.99)),
		},
	}
	kijiji := &stubConnector{
		source: domain.SourceKijiji,
		listings: []domain.Listing{
			listing(domain.SourceKijiji, "k1", "Vintage oak dresser", "Solid wood dresser.", ptr(80)),
		},
	}

	svc := newTestService(t, ebay, kijiji)

	results := svc.Search(context.Background(), "iphone 12",
		[]domain.Source{domain.SourceEbay, domain.SourceKijiji}, 10)

	require.Len(t, results, 3)

	// The clean match ranks first. The parts listing's negative-hint
	// penalties drag it below even the zero-overlap dresser, which only
	// carries the price nudge.
	assert.Equal(t, "e1", results[0].SourceListingID)
	assert.Equal(t, "k1", results[1].SourceListingID)
	assert.Equal(t, "e2", results[2].SourceListingID)

	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Greater(t, results[1].Score, results[2].Score)
	assert.Contains(t, results[0].ScoreReason, "phrase_in_title")
	assert.Contains(t, results[2].ScoreReason, "neg_hits=")
}

func TestSearchSortIsStableWithinEqualScores(t *testing.T) {
	t.Parallel()

	// Identical titles and snippets score identically, so the merge
	// order (caller's source order, then connector order) must hold.
	ebay := &stubConnector{
		source: domain.SourceEbay,
		listings: []domain.Listing{
			listing(domain.SourceEbay, "e1", "Canoe paddle", "", ptr(30)),
			listing(domain.SourceEbay, "e2", "Canoe paddle", "", ptr(30)),
		},
	}
	kijiji := &stubConnector{
		source: domain.SourceKijiji,
		listings: []domain.Listing{
			listing(domain.SourceKijiji, "k1", "Canoe paddle", "", ptr(30)),
		},
	}

	svc := newTestService(t, ebay, kijiji)

	results := svc.Search(context.Background(), "canoe paddle",
		[]domain.Source{domain.SourceKijiji, domain.SourceEbay}, 10)

	require.Len(t, results, 3)
	assert.Equal(t, "k1", results[0].SourceListingID)
	assert.Equal(t, "e1", results[1].SourceListingID)
	assert.Equal(t, "e2", results[2].SourceListingID)
}

func TestSearchTruncatesToLimit(t *testing.T) {
	t.Parallel()

	var listings []domain.Listing
	for _, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		listings = append(listings, listing(domain.SourceEbay, id, "Canoe "+id, "", ptr(100)))
	}
	ebay := &stubConnector{source: domain.SourceEbay, listings: listings}

	svc := newTestService(t, ebay)

	results := svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay}, 2)
	assert.Len(t, results, 2)
}

func TestSearchCachesResults(t *testing.T) {
	t.Parallel()

	ebay := &stubConnector{
		source:   domain.SourceEbay,
		listings: []domain.Listing{listing(domain.SourceEbay, "e1", "Canoe", "", ptr(100))},
	}

	svc := newTestService(t, ebay)

	first := svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay}, 10)
	second := svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay}, 10)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, ebay.calls.Load(), "cache hit must not re-invoke connectors")
}

func TestSearchCacheKeyIgnoresSourceOrder(t *testing.T) {
	t.Parallel()

	ebay := &stubConnector{
		source:   domain.SourceEbay,
		listings: []domain.Listing{listing(domain.SourceEbay, "e1", "Canoe", "", ptr(100))},
	}
	kijiji := &stubConnector{
		source:   domain.SourceKijiji,
		listings: []domain.Listing{listing(domain.SourceKijiji, "k1", "Canoe", "", ptr(90))},
	}

	svc := newTestService(t, ebay, kijiji)

	svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay, domain.SourceKijiji}, 10)
	svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceKijiji, domain.SourceEbay}, 10)

	assert.EqualValues(t, 1, ebay.calls.Load())
	assert.EqualValues(t, 1, kijiji.calls.Load())
}

func TestSearchCacheExpires(t *testing.T) {
	t.Parallel()

	now := time.Now()

	ebay := &stubConnector{
		source:   domain.SourceEbay,
		listings: []domain.Listing{listing(domain.SourceEbay, "e1", "Canoe", "", ptr(100))},
	}

	svc := NewService(
		connector.NewRegistry(ebay),
		memory.New(memory.WithNowFunc[[]domain.Listing](func() time.Time { return now })),
		WithCacheTTL(60*time.Second),
	)

	svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay}, 10)
	now = now.Add(61 * time.Second)
	svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay}, 10)

	assert.EqualValues(t, 2, ebay.calls.Load(), "expired entry must trigger a fresh fan-out")
}

func TestSearchSkipsUnknownSources(t *testing.T) {
	t.Parallel()

	ebay := &stubConnector{
		source:   domain.SourceEbay,
		listings: []domain.Listing{listing(domain.SourceEbay, "e1", "Canoe", "", ptr(100))},
	}

	svc := newTestService(t, ebay)

	results := svc.Search(context.Background(), "canoe",
		[]domain.Source{domain.SourceEbay, domain.Source("craigslist")}, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "e1", results[0].SourceListingID)
}

func TestSearchEmptySourcesMeansAll(t *testing.T) {
	t.Parallel()

	ebay := &stubConnector{
		source:   domain.SourceEbay,
		listings: []domain.Listing{listing(domain.SourceEbay, "e1", "Canoe", "", ptr(100))},
	}
	kijiji := &stubConnector{
		source:   domain.SourceKijiji,
		listings: []domain.Listing{listing(domain.SourceKijiji, "k1", "Canoe paddle", "", ptr(30))},
	}

	svc := newTestService(t, ebay, kijiji)

	results := svc.Search(context.Background(), "canoe", nil, 10)
	assert.Len(t, results, 2)
	assert.EqualValues(t, 1, ebay.calls.Load())
	assert.EqualValues(t, 1, kijiji.calls.Load())
}

func TestSearchSurvivesEmptyConnectorResults(t *testing.T) {
	t.Parallel()

	// A connector that produces nothing (its failure mode) must not
	// disturb the other sources' results.
	ebay := &stubConnector{source: domain.SourceEbay}
	kijiji := &stubConnector{
		source:   domain.SourceKijiji,
		listings: []domain.Listing{listing(domain.SourceKijiji, "k1", "Canoe", "", ptr(90))},
	}

	svc := newTestService(t, ebay, kijiji)

	results := svc.Search(context.Background(), "canoe",
		[]domain.Source{domain.SourceEbay, domain.SourceKijiji}, 10)
	require.Len(t, results, 1)
	assert.Equal(t, domain.SourceKijiji, results[0].Source)
}

func TestSearchClampsLimit(t *testing.T) {
	t.Parallel()

	ebay := &stubConnector{
		source:   domain.SourceEbay,
		listings: []domain.Listing{listing(domain.SourceEbay, "e1", "Canoe", "", ptr(100))},
	}

	svc := newTestService(t, ebay)

	assert.Len(t, svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay}, 0), 1)
	assert.Len(t, svc.Search(context.Background(), "canoe", []domain.Source{domain.SourceEbay}, 9999), 1)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := fingerprint("iphone", []domain.Source{domain.SourceEbay, domain.SourceKijiji}, 10)
	b := fingerprint("iphone", []domain.Source{domain.SourceKijiji, domain.SourceEbay}, 10)
	assert.Equal(t, a, b, "source order does not change the key")

	assert.NotEqual(t, a, fingerprint("iphone", []domain.Source{domain.SourceEbay, domain.SourceKijiji}, 20))
	assert.NotEqual(t, a, fingerprint("canoe", []domain.Source{domain.SourceEbay, domain.SourceKijiji}, 10))
	assert.Len(t, a, 64)
}
