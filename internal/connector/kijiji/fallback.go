package kijiji

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The fallback scraper predates the JSON-LD path and keys off listing
// URLs, which have been the stablest part of the markup:
// /v-<category>/<area>/<slug>/<adId>.
var listingHrefRe = regexp.MustCompile(`(?:https?://[^/]+)?/v-[^/]+/[^/]+/[^/]+/\d+`)

var priceBlobRe = regexp.MustCompile(`\$\s?[\d,]+(?:\.\d{2})?`)

// parseFallbackItems extracts candidate items by walking anchor tags
// whose href looks like a listing URL, taking the anchor text as the
// title and scanning nearby text for a dollar amount. Enabled via the
// use_fallback_scraper config flag for pages that stop embedding
// structured data.
func parseFallbackItems(html []byte) ([]ldItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var items []ldItem

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !listingHrefRe.MatchString(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}

		item := ldItem{
			Name: normalizeSpace(a.Text()),
			URL:  href,
		}

		// Climb a few levels and look for a price anywhere in the card.
		container := a
		for range 4 {
			parent := container.Parent()
			if parent.Length() == 0 {
				break
			}
			container = parent
		}
		if m := priceBlobRe.FindString(container.Text()); m != "" {
			if amount, ok := parsePriceText(m); ok {
				item.Price = &amount
			}
		}

		items = append(items, item)
	})

	return items, nil
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
