package search

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// fingerprint derives a stable cache key from the request. Source order
// is normalized so that ("ebay","kijiji") and ("kijiji","ebay") share a
// cache entry; limit participates because it changes the stored result.
func fingerprint(query string, sources []domain.Source, limit int) string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	slices.Sort(names)

	raw := query + "|" + strings.Join(names, ",") + "|" + strconv.Itoa(limit)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
