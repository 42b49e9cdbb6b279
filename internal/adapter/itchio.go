package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamedeals/freegames/internal/model"
)

const itchioDefaultBaseURL = "https://itch.io"

// maxItchListings caps how many cards we take from the free-games grid;
// the page is effectively endless.
const maxItchListings = 10

// ItchIO scrapes the free-games grid for free and pay-what-you-want titles.
type ItchIO struct {
	settings
}

// NewItchIO creates the itch.io adapter.
func NewItchIO(opts ...Option) *ItchIO {
	return &ItchIO{settings: newSettings(itchioDefaultBaseURL, opts...)}
}

func (a *ItchIO) Source() model.Source { return model.SourceItchIO }

func (a *ItchIO) Fetch(ctx context.Context) ([]model.RawListing, error) {
	url := a.baseURL + "/games/free"

	doc, err := a.fetchDocument(ctx, model.SourceItchIO, url)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []model.RawListing

	doc.Find("div.game_cell").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		titleLink := card.Find("a.title").First()
		title := strings.TrimSpace(titleLink.Text())
		href, _ := titleLink.Attr("href")
		if title == "" || href == "" {
			return true
		}

		price := strings.ToLower(firstText(card, `[class*="price"]`))
		if !strings.Contains(price, "free") && !strings.Contains(price, "pay what you want") {
			return true
		}

		if !strings.HasPrefix(href, "http") {
			href = a.baseURL + href
		}

		listings = append(listings, model.RawListing{
			Source: model.SourceItchIO,
			Fields: map[string]string{
				"title": title,
				"url":   href,
				"price": price,
			},
			FetchedAt: now,
		})
		return len(listings) < maxItchListings
	})

	a.logger.Debug("itchio fetch complete", "listings", len(listings))
	return listings, nil
}
