package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamedeals/freegames/internal/model"
)

const ubisoftDefaultBaseURL = "https://store.ubisoft.com"

const maxUbisoftListings = 10

// Ubisoft scrapes the store grid for free-game promotions.
type Ubisoft struct {
	settings
}

// NewUbisoft creates the Ubisoft Store adapter.
func NewUbisoft(opts ...Option) *Ubisoft {
	return &Ubisoft{settings: newSettings(ubisoftDefaultBaseURL, opts...)}
}

func (a *Ubisoft) Source() model.Source { return model.SourceUbisoft }

func (a *Ubisoft) Fetch(ctx context.Context) ([]model.RawListing, error) {
	url := a.baseURL + "/us/game?prefn1=productType&prefv1=Game"

	doc, err := a.fetchDocument(ctx, model.SourceUbisoft, url)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []model.RawListing

	doc.Find(`[class*="product"], [class*="card"], article`).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := firstText(card, `h1[class*="title"], h2[class*="title"], h3[class*="title"], a[class*="title"], [class*="name"]`)
		price := strings.ToLower(firstText(card, `[class*="price"], [class*="cost"]`))

		if len(title) > 3 && strings.Contains(price, "free") {
			listings = append(listings, model.RawListing{
				Source: model.SourceUbisoft,
				Fields: map[string]string{
					"title": title,
					"url":   url,
					"price": price,
				},
				FetchedAt: now,
			})
		}
		return len(listings) < maxUbisoftListings
	})

	a.logger.Debug("ubisoft fetch complete", "listings", len(listings))
	return listings, nil
}
