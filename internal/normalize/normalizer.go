package normalize

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gamedeals/freegames/internal/model"
)

// fieldMap names the raw field keys one storefront's adapter emits. Empty
// entries mean the storefront never provides that field.
type fieldMap struct {
	title    string
	url      string
	deadline string
	price    string
	currency string

	// cents marks sources whose price field is an integer cent count
	// rather than display text.
	cents bool
}

var fieldMaps = map[model.Source]fieldMap{
	model.SourceEpic:      {title: "title", url: "url", deadline: "endDate", price: "originalPriceCents", currency: "currencyCode", cents: true},
	model.SourceSteam:     {title: "name", url: "url", price: "originalPriceCents", currency: "currency", cents: true},
	model.SourceGOG:       {title: "title", url: "url"},
	model.SourceItchIO:    {title: "title", url: "url", price: "price"},
	model.SourceUbisoft:   {title: "title", url: "url", price: "price"},
	model.SourceAmazon:    {title: "title", url: "url"},
	model.SourceMicrosoft: {title: "title", url: "url", price: "price"},
}

// deadlineLayouts are tried in order against the raw expiry text.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalizer converts raw listings into canonical offers.
type Normalizer struct {
	logger *slog.Logger
}

// New creates a Normalizer.
func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Result holds a normalization pass's output.
type Result struct {
	Offers   []model.Offer
	Rejected int
}

// Normalize maps every raw listing to an Offer, preserving input order.
// Listings with no usable title are rejected and counted; unparseable
// prices and deadlines simply leave the field absent.
func (n *Normalizer) Normalize(rc model.RunContext, listings []model.RawListing) Result {
	var res Result
	for _, l := range listings {
		offer, err := n.normalizeOne(rc, l)
		if err != nil {
			res.Rejected++
			n.logger.Debug("listing rejected",
				"source", l.Source,
				"reason", err,
			)
			continue
		}
		res.Offers = append(res.Offers, offer)
	}

	n.logger.Info("normalization complete",
		"in", len(listings),
		"offers", len(res.Offers),
		"rejected", res.Rejected,
	)
	return res
}

func (n *Normalizer) normalizeOne(rc model.RunContext, l model.RawListing) (model.Offer, error) {
	fm, ok := fieldMaps[l.Source]
	if !ok {
		return model.Offer{}, fmt.Errorf("no field mapping for source %q", l.Source)
	}

	title := strings.TrimSpace(l.Fields[fm.title])
	if title == "" {
		return model.Offer{}, fmt.Errorf("missing title")
	}

	discovered := l.FetchedAt
	if discovered.IsZero() {
		discovered = rc.Now()
	}

	offer := model.Offer{
		Title:        title,
		Source:       l.Source,
		URL:          strings.TrimSpace(l.Fields[fm.url]),
		DiscoveredAt: discovered,
		MatchKey:     MatchKey(title),
	}

	if fm.deadline != "" {
		offer.ClaimDeadline = parseDeadline(l.Fields[fm.deadline])
	}

	if fm.price != "" {
		if was := parsePrice(l.Fields[fm.price], l.Fields[fm.currency], fm.cents); was != nil {
			offer.PriceWas = was
			offer.PriceNow = &model.Money{Amount: decimal.Zero, Currency: was.Currency}
		}
	}

	return offer, nil
}

// parseDeadline returns nil when the text does not match any known layout.
// Callers treat nil as "unknown end date".
func parseDeadline(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// parsePrice turns raw price text into Money, or nil when the text is
// absent, unparseable, or zero. Cent-based sources carry an integer count;
// the rest carry display text like "$19.99".
func parsePrice(raw, currency string, cents bool) *model.Money {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var amount decimal.Decimal
	if cents {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		amount = decimal.New(n, -2)
	} else {
		text := raw
		if currency == "" {
			currency = currencyFromSymbol(text)
		}
		text = strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' || r == '.' {
				return r
			}
			return -1
		}, text)
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil
		}
		amount = d
	}

	if !amount.IsPositive() {
		return nil
	}
	if currency == "" {
		currency = "USD"
	}
	return &model.Money{Amount: amount, Currency: currency}
}

func currencyFromSymbol(text string) string {
	switch {
	case strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(text, "£"):
		return "GBP"
	case strings.Contains(text, "$"):
		return "USD"
	default:
		return ""
	}
}
