package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases and splits", "iPhone 12 Pro", []string{"iphone", "12", "pro"}},
		{"drops stopwords", "the best case for a phone", []string{"best", "phone"}},
		{"punctuation separates runs", "MacBook-Pro/2021, 16GB!", []string{"macbook", "pro", "2021", "16gb"}},
		{"empty input", "", nil},
		{"only stopwords", "of the and", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestScore_EmptyQuery(t *testing.T) {
	t.Parallel()

	s, reason := Score("", "iPhone 12", "a snippet", true)
	assert.Zero(t, s)
	assert.Equal(t, ReasonEmptyQuery, reason)

	// A query of pure stopwords tokenizes to nothing as well.
	s, reason = Score("the and of", "iPhone 12", "", false)
	assert.Zero(t, s)
	assert.Equal(t, ReasonEmptyQuery, reason)
}

func TestScore_NoSignals(t *testing.T) {
	t.Parallel()

	s, reason := Score("iphone", "", "", false)
	assert.Zero(t, s)
	assert.Equal(t, ReasonNoSignals, reason)
}

func TestScore_TitleAndSnippetHits(t *testing.T) {
	t.Parallel()

	s, reason := Score("iphone 12", "iPhone 12 - Example", "", false)
	// 2 title hits * 3 + phrase bonus 2.
	assert.InDelta(t, 8.0, s, 0.001)
	assert.Equal(t, "title_hits=2,phrase_in_title", reason)

	s, reason = Score("iphone", "Unrelated Widget", "mentions iphone here", false)
	assert.InDelta(t, 1.0, s, 0.001)
	assert.Equal(t, "snippet_hits=1", reason)
}

func TestScore_NegativeHints(t *testing.T) {
	t.Parallel()

	s, reason := Score("iphone 12", "iPhone 12 screen repair parts", "", true)
	// 2 title hits (6.0) - hints (repair, repairs? no; "repair", "parts",
	// "part" all substring-match) + price bonus.
	assert.Less(t, s, 6.0)
	assert.Contains(t, reason, "neg_hits=")
	assert.Contains(t, reason, "has_price")
}

func TestScore_RepairPartsRanksBelowCleanListing(t *testing.T) {
	t.Parallel()

	clean, _ := Score("iphone", "iPhone 12 - Example", "", true)
	noisy, _ := Score("iphone", "iPhone 12 screen repair parts", "", true)
	unrelated, _ := Score("iphone", "Unrelated Widget", "", true)

	assert.Greater(t, clean, noisy)
	assert.Greater(t, noisy, unrelated-3) // noisy still has a token match
	assert.LessOrEqual(t, unrelated, 0.5) // price nudge only
}

func TestScore_Floor(t *testing.T) {
	t.Parallel()

	// Pile up enough distinct negative hints to blow past the floor.
	title := "repair fix replacement case cover charger cable parts broken cracked wanted swap"
	s, reason := Score("zzzz", title, "accessory accessories trade service wtb buying", false)
	assert.InDelta(t, -10.0, s, 0.001)
	assert.Contains(t, reason, "neg_hits=")
}

func TestScore_Deterministic(t *testing.T) {
	t.Parallel()

	s1, r1 := Score("iphone 12 pro", "iPhone 12 Pro Max 256GB", "great condition, no case", true)
	s2, r2 := Score("iphone 12 pro", "iPhone 12 Pro Max 256GB", "great condition, no case", true)
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
}

func TestScore_PriceNudge(t *testing.T) {
	t.Parallel()

	with, _ := Score("iphone", "iPhone 12", "", true)
	without, _ := Score("iphone", "iPhone 12", "", false)
	assert.InDelta(t, 0.5, with-without, 0.001)
}
