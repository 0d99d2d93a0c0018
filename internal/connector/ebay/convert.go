package ebay

import (
	"strconv"

	domain "github.com/tgrenier/marketly/pkg/types"
)

// ToListings converts Browse API item summaries into domain listings.
// Items missing an id, title, or url are dropped: tolerance is per
// item, not per request.
func ToListings(items []ItemSummary) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for i := range items {
		l, ok := toListing(&items[i])
		if !ok {
			continue
		}
		listings = append(listings, l)
	}
	return listings
}

func toListing(item *ItemSummary) (domain.Listing, bool) {
	if item.ItemID == "" || item.Title == "" || item.ItemWebURL == "" {
		return domain.Listing{}, false
	}

	l := domain.Listing{
		Source:          domain.SourceEbay,
		SourceListingID: item.ItemID,
		Title:           item.Title,
		URL:             item.ItemWebURL,
		Condition:       item.Condition,
		Snippet:         item.ShortDescription,
	}

	if amount, err := strconv.ParseFloat(item.Price.Value, 64); err == nil && amount >= 0 {
		currency := item.Price.Currency
		if currency == "" {
			currency = "CAD"
		}
		l.Price = &domain.Money{Amount: amount, Currency: currency}
	}

	if item.Image != nil && item.Image.ImageURL != "" {
		l.ImageURLs = append(l.ImageURLs, item.Image.ImageURL)
	}
	for _, img := range item.AdditionalImages {
		if img.ImageURL != "" {
			l.ImageURLs = append(l.ImageURLs, img.ImageURL)
		}
	}

	if loc := item.ItemLocation; loc != nil {
		l.Location = formatLocation(loc)
	}

	return l, true
}

func formatLocation(loc *ItemLocation) string {
	switch {
	case loc.City != "" && loc.StateOrProvince != "":
		return loc.City + ", " + loc.StateOrProvince
	case loc.City != "":
		return loc.City
	case loc.StateOrProvince != "":
		return loc.StateOrProvince
	default:
		return loc.Country
	}
}
