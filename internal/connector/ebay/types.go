package ebay

// ItemSummary is a single item from the Browse API search response.
type ItemSummary struct {
	ItemID           string        `json:"itemId"`
	Title            string        `json:"title"`
	Price            ItemPrice     `json:"price"`
	ItemWebURL       string        `json:"itemWebUrl"`
	Image            *ItemImage    `json:"image,omitempty"`
	AdditionalImages []ItemImage   `json:"additionalImages,omitempty"`
	Condition        string        `json:"condition"`
	ItemLocation     *ItemLocation `json:"itemLocation,omitempty"`
	ShortDescription string        `json:"shortDescription,omitempty"`
}

// ItemPrice holds Browse API price information.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemImage holds Browse API image information.
type ItemImage struct {
	ImageURL string `json:"imageUrl"`
}

// ItemLocation holds coarse item location information.
type ItemLocation struct {
	City            string `json:"city,omitempty"`
	StateOrProvince string `json:"stateOrProvince,omitempty"`
	Country         string `json:"country,omitempty"`
}
