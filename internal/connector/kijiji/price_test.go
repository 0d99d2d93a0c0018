package kijiji

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{"plain dollars", "$1200", 1200, true},
		{"thousands separator with cents", "$1,200.00", 1200, true},
		{"large thousands", "$12,345,678.90", 12345678.90, true},
		{"no symbol", "249.99", 249.99, true},
		{"free is zero", "Free", 0, true},
		{"free embedded", "FREE!", 0, true},
		{"please contact is absent", "Please Contact", 0, false},
		{"empty is absent", "", 0, false},
		{"whitespace is absent", "   ", 0, false},
		{"no number is absent", "Swap / Trade", 0, false},
		{"trailing dot not consumed", "$45. Or best offer", 45, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := parsePriceText(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestExtractListingID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			"ad id in last segment",
			"https://www.kijiji.ca/v-cell-phone/city-of-toronto/iphone-12/1234567890",
			"1234567890",
		},
		{
			"numeric segment not last",
			"https://www.kijiji.ca/v-cell-phone/1234567890/extras",
			"1234567890",
		},
		{
			"no numeric segment falls back to url",
			"https://www.kijiji.ca/v-cell-phone/toronto/iphone-12",
			"https://www.kijiji.ca/v-cell-phone/toronto/iphone-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extractListingID(tt.url))
		})
	}
}
