package adapter

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gamedeals/freegames/internal/model"
)

const steamDefaultBaseURL = "https://store.steampowered.com"

// Steam fetches temporary 100%-off promotions from the featured categories
// API. Steam has no dedicated giveaway feed; free-to-keep weekends surface
// as specials with a full discount.
type Steam struct {
	settings
}

// NewSteam creates the Steam adapter.
func NewSteam(opts ...Option) *Steam {
	return &Steam{settings: newSettings(steamDefaultBaseURL, opts...)}
}

func (a *Steam) Source() model.Source { return model.SourceSteam }

type steamResponse struct {
	Specials struct {
		Items []steamItem `json:"items"`
	} `json:"specials"`
}

type steamItem struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	FinalPrice      int    `json:"final_price"`
	OriginalPrice   int    `json:"original_price"`
	DiscountPercent int    `json:"discount_percent"`
	Currency        string `json:"currency"`
}

func (a *Steam) Fetch(ctx context.Context) ([]model.RawListing, error) {
	url := a.baseURL + "/api/featuredcategories"

	body, err := a.fetchBody(ctx, model.SourceSteam, url)
	if err != nil {
		return nil, err
	}

	var resp steamResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Source: model.SourceSteam, Err: err}
	}

	now := time.Now().UTC()
	var listings []model.RawListing

	for _, item := range resp.Specials.Items {
		if item.FinalPrice != 0 || item.OriginalPrice <= 0 || item.DiscountPercent != 100 {
			continue
		}

		listings = append(listings, model.RawListing{
			Source: model.SourceSteam,
			Fields: map[string]string{
				"name":               item.Name,
				"url":                "https://store.steampowered.com/app/" + strconv.Itoa(item.ID),
				"originalPriceCents": strconv.Itoa(item.OriginalPrice),
				"currency":           item.Currency,
				"discountPercent":    strconv.Itoa(item.DiscountPercent),
			},
			FetchedAt: now,
		})
	}

	a.logger.Debug("steam fetch complete", "listings", len(listings))
	return listings, nil
}
