package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamedeals/freegames/internal/model"
)

const gogDefaultBaseURL = "https://www.gog.com"

// GOG scrapes the giveaway page. GOG exposes no public giveaway API, so
// this is a best-effort extraction from banner markup.
type GOG struct {
	settings
}

// NewGOG creates the GOG adapter.
func NewGOG(opts ...Option) *GOG {
	return &GOG{settings: newSettings(gogDefaultBaseURL, opts...)}
}

func (a *GOG) Source() model.Source { return model.SourceGOG }

func (a *GOG) Fetch(ctx context.Context) ([]model.RawListing, error) {
	url := a.baseURL + "/giveaway"

	doc, err := a.fetchDocument(ctx, model.SourceGOG, url)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []model.RawListing

	doc.Find(`[class*="giveaway"], [class*="promo"], [class*="banner"]`).Each(func(_ int, sel *goquery.Selection) {
		title := firstText(sel, `h1[class*="title"], h2[class*="title"], h3[class*="title"], span[class*="title"], [class*="name"], [class*="game"]`)
		if len(title) <= 3 {
			return
		}

		listings = append(listings, model.RawListing{
			Source: model.SourceGOG,
			Fields: map[string]string{
				"title": title,
				"url":   url,
				"promo": "GOG Giveaway",
			},
			FetchedAt: now,
		})
	})

	a.logger.Debug("gog fetch complete", "listings", len(listings))
	return listings, nil
}

// firstText returns the trimmed text of the first non-empty match.
func firstText(sel *goquery.Selection, selector string) string {
	text := ""
	sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.TrimSpace(s.Text())
		return text == ""
	})
	return text
}
