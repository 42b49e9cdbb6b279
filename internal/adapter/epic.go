package adapter

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gamedeals/freegames/internal/model"
)

const epicDefaultBaseURL = "https://store-site-backend-static-ipv4.ak.epicgames.com"

// Epic fetches the weekly giveaway from the Epic Games Store promotions API.
type Epic struct {
	settings
}

// NewEpic creates the Epic Games Store adapter.
func NewEpic(opts ...Option) *Epic {
	return &Epic{settings: newSettings(epicDefaultBaseURL, opts...)}
}

func (a *Epic) Source() model.Source { return model.SourceEpic }

// epicResponse mirrors the subset of the freeGamesPromotions payload we read.
type epicResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []epicElement `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type epicElement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       struct {
		TotalPrice struct {
			OriginalPrice int    `json:"originalPrice"`
			CurrencyCode  string `json:"currencyCode"`
		} `json:"totalPrice"`
	} `json:"price"`
	CatalogNs struct {
		Mappings []struct {
			PageSlug string `json:"pageSlug"`
		} `json:"mappings"`
	} `json:"catalogNs"`
	Promotions *struct {
		PromotionalOffers []struct {
			PromotionalOffers []struct {
				EndDate string `json:"endDate"`
			} `json:"promotionalOffers"`
		} `json:"promotionalOffers"`
	} `json:"promotions"`
}

func (a *Epic) Fetch(ctx context.Context) ([]model.RawListing, error) {
	url := a.baseURL + "/freeGamesPromotions?locale=en-US&country=US&allowCountries=US"

	body, err := a.fetchBody(ctx, model.SourceEpic, url)
	if err != nil {
		return nil, err
	}

	var resp epicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Source: model.SourceEpic, Err: err}
	}

	now := time.Now().UTC()
	var listings []model.RawListing

	for _, el := range resp.Data.Catalog.SearchStore.Elements {
		end, active := el.activePromotion()
		if !active {
			continue
		}
		// Only games that were originally paid; permanently free titles
		// show up in the catalog too.
		if el.Price.TotalPrice.OriginalPrice <= 0 {
			continue
		}

		listings = append(listings, model.RawListing{
			Source: model.SourceEpic,
			Fields: map[string]string{
				"title":              el.Title,
				"url":                el.storeURL(),
				"endDate":            end,
				"originalPriceCents": strconv.Itoa(el.Price.TotalPrice.OriginalPrice),
				"currencyCode":       el.Price.TotalPrice.CurrencyCode,
				"description":        el.Description,
			},
			FetchedAt: now,
		})
	}

	a.logger.Debug("epic fetch complete", "listings", len(listings))
	return listings, nil
}

// activePromotion returns the end date of the currently running giveaway,
// or ok=false if the element has none.
func (el *epicElement) activePromotion() (endDate string, ok bool) {
	if el.Promotions == nil {
		return "", false
	}
	for _, group := range el.Promotions.PromotionalOffers {
		for _, offer := range group.PromotionalOffers {
			return offer.EndDate, true
		}
	}
	return "", false
}

func (el *epicElement) storeURL() string {
	for _, m := range el.CatalogNs.Mappings {
		if m.PageSlug != "" {
			return "https://store.epicgames.com/en-US/p/" + m.PageSlug
		}
	}
	return "https://store.epicgames.com"
}
