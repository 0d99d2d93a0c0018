package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, SearchDuration)
	assert.NotNil(t, SearchCacheHitsTotal)
	assert.NotNil(t, SearchCacheMissesTotal)
	assert.NotNil(t, ConnectorSearchDuration)
	assert.NotNil(t, ConnectorListingsTotal)
	assert.NotNil(t, ConnectorFailuresTotal)
	assert.NotNil(t, EbayAPICallsTotal)
	assert.NotNil(t, EbayTokenRefreshesTotal)
}
