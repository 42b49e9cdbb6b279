package adapter

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamedeals/freegames/internal/model"
)

const amazonDefaultBaseURL = "https://gaming.amazon.com"

const maxAmazonListings = 10

// Amazon scrapes the Prime Gaming loot page. Offers there require an active
// Prime subscription.
type Amazon struct {
	settings
}

// NewAmazon creates the Amazon Prime Gaming adapter.
func NewAmazon(opts ...Option) *Amazon {
	return &Amazon{settings: newSettings(amazonDefaultBaseURL, opts...)}
}

func (a *Amazon) Source() model.Source { return model.SourceAmazon }

func (a *Amazon) Fetch(ctx context.Context) ([]model.RawListing, error) {
	url := a.baseURL + "/loot"

	doc, err := a.fetchDocument(ctx, model.SourceAmazon, url)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []model.RawListing

	doc.Find(`[class*="offer"], [class*="loot"], [class*="game"]`).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := firstText(card, `h1[class*="title"], h2[class*="title"], h3[class*="title"], span[class*="title"], [class*="name"]`)
		if len(title) <= 3 {
			return true
		}

		listings = append(listings, model.RawListing{
			Source: model.SourceAmazon,
			Fields: map[string]string{
				"title":     title,
				"url":       url,
				"offerType": "Prime Gaming Offer",
			},
			FetchedAt: now,
		})
		return len(listings) < maxAmazonListings
	})

	a.logger.Debug("amazon fetch complete", "listings", len(listings))
	return listings, nil
}
