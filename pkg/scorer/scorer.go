// Package score computes the relevance of a listing for a free-text
// query. Scoring is deterministic and side-effect-free: identical inputs
// always produce the identical (score, reason) pair.
package score

import (
	"fmt"
	"strings"
)

// Reason strings for the two short-circuit cases.
const (
	ReasonEmptyQuery = "empty_query"
	ReasonNoSignals  = "no_signals"
)

const (
	titleHitWeight   = 3.0
	snippetHitWeight = 1.0
	phraseBonus      = 2.0
	negativePenalty  = 2.5
	priceBonus       = 0.5
	scoreFloor       = -10.0
)

// stopwords are dropped during tokenization.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "with": {}, "at": {},
	"by": {}, "from": {}, "is": {}, "are": {}, "it": {}, "this": {},
	"that": {},
}

// negativeHints are intent-mismatch phrases that commonly show up in
// classifieds noise (repair services, accessories, wanted ads). A match
// penalizes the listing but never excludes it.
var negativeHints = []string{
	"repair", "repairs", "fix", "screen replacement", "replacement",
	"case", "cases", "cover", "charger", "cable", "accessory", "accessories",
	"parts", "part", "broken", "cracked", "wanted", "wtb", "buying",
	"cash for", "trade", "swap", "unlock service", "service",
}

// Tokenize lowercases text, extracts alphanumeric runs, and drops
// stopwords.
func Tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := cur.String()
		cur.Reset()
		if _, stop := stopwords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Score rates how well a listing matches the query. Title token hits
// weigh 3x, snippet hits 1x, an exact phrase match in the title adds a
// bonus, each distinct negative hint subtracts a penalty, and a present
// price adds a small quality nudge. The result is floored at -10 and
// has no ceiling. The reason string names the contributing signals.
func Score(query, title, snippet string, hasPrice bool) (float64, string) {
	qTokens := Tokenize(query)
	if len(qTokens) == 0 {
		return 0, ReasonEmptyQuery
	}

	titleL := strings.ToLower(title)
	snippetL := strings.ToLower(snippet)

	var score float64
	var reasons []string

	var titleHits, snipHits int
	for _, t := range qTokens {
		if strings.Contains(titleL, t) {
			titleHits++
		}
		if strings.Contains(snippetL, t) {
			snipHits++
		}
	}

	score += float64(titleHits) * titleHitWeight
	score += float64(snipHits) * snippetHitWeight
	if titleHits > 0 {
		reasons = append(reasons, fmt.Sprintf("title_hits=%d", titleHits))
	}
	if snipHits > 0 {
		reasons = append(reasons, fmt.Sprintf("snippet_hits=%d", snipHits))
	}

	if phrase := strings.Join(qTokens, " "); strings.Contains(titleL, phrase) {
		score += phraseBonus
		reasons = append(reasons, "phrase_in_title")
	}

	var negHits int
	for _, bad := range negativeHints {
		if strings.Contains(titleL, bad) || strings.Contains(snippetL, bad) {
			negHits++
		}
	}
	if negHits > 0 {
		score -= float64(negHits) * negativePenalty
		reasons = append(reasons, fmt.Sprintf("neg_hits=%d", negHits))
	}

	if hasPrice {
		score += priceBonus
		reasons = append(reasons, "has_price")
	}

	if score < scoreFloor {
		score = scoreFloor
	}

	if len(reasons) == 0 {
		return score, ReasonNoSignals
	}
	return score, strings.Join(reasons, ",")
}
