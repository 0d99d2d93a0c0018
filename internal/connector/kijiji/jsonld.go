package kijiji

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// ldItem is one product entry pulled out of an embedded JSON-LD
// ItemList. Fields mirror the schema.org vocabulary loosely: real pages
// mix types freely, so everything is decoded permissively.
type ldItem struct {
	Name        string
	URL         string
	Description string
	Images      []string
	Price       *float64
	Currency    string
}

// parseJSONLDItems extracts product entries from every
// script[type="application/ld+json"] block in the document. Blocks that
// fail to decode are skipped; extraction is best-effort by design.
func parseJSONLDItems(html []byte) ([]ldItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	var payloads []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := s.Text()
		if raw == "" {
			return
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}
		collectPayloads(data, &payloads)
	})

	var items []ldItem
	for _, p := range payloads {
		if p["@type"] != "ItemList" {
			continue
		}
		elements, ok := p["itemListElement"].([]any)
		if !ok {
			continue
		}
		for _, el := range elements {
			entry, ok := el.(map[string]any)
			if !ok {
				continue
			}
			item, ok := entry["item"].(map[string]any)
			if !ok {
				continue
			}
			items = append(items, decodeLDItem(item))
		}
	}

	return items, nil
}

// collectPayloads flattens a decoded JSON-LD value into dict payloads,
// descending into arrays and @graph containers.
func collectPayloads(v any, out *[]map[string]any) {
	switch t := v.(type) {
	case map[string]any:
		*out = append(*out, t)
		if g, ok := t["@graph"].([]any); ok {
			for _, x := range g {
				if m, ok := x.(map[string]any); ok {
					*out = append(*out, m)
				}
			}
		}
	case []any:
		for _, x := range t {
			collectPayloads(x, out)
		}
	}
}

func decodeLDItem(item map[string]any) ldItem {
	out := ldItem{
		Name:        stringField(item, "name"),
		URL:         stringField(item, "url"),
		Description: stringField(item, "description"),
	}

	// Image can be a single URL or a list of them.
	switch imgs := item["image"].(type) {
	case string:
		if imgs != "" {
			out.Images = []string{imgs}
		}
	case []any:
		for _, x := range imgs {
			if s, ok := x.(string); ok && s != "" {
				out.Images = append(out.Images, s)
			}
		}
	}

	// Offers can be a dict or a list of dicts; take the first.
	offers := item["offers"]
	if list, ok := offers.([]any); ok && len(list) > 0 {
		offers = list[0]
	}
	if offer, ok := offers.(map[string]any); ok {
		out.Currency = stringField(offer, "priceCurrency")
		if amount, ok := numberField(offer, "price"); ok && amount >= 0 {
			out.Price = &amount
		}
	}

	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// numberField reads a value that sites emit as either a JSON number or
// a numeric string.
func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
