package sink

import (
	"time"

	"github.com/gamedeals/freegames/internal/model"
)

// RunDocument is the serialized form of one run, shared by the JSON and CSV
// sinks. Times are RFC 3339 UTC; unknown values serialize as explicit
// nulls, not omitted keys, so consumers can tell "unknown" from "absent".
type RunDocument struct {
	RunID      string                               `json:"run_id"`
	StartedAt  string                               `json:"started_at"`
	FinishedAt string                               `json:"finished_at"`
	Sources    map[model.Source]model.SourceOutcome `json:"sources"`
	Counts     CountsDocument                       `json:"counts"`
	Offers     []OfferDocument                      `json:"offers"`
}

// CountsDocument carries the run's stage counts.
type CountsDocument struct {
	Raw        int `json:"raw"`
	Normalized int `json:"normalized"`
	Rejected   int `json:"rejected"`
	Merged     int `json:"merged"`
}

// OfferDocument is one merged offer in wire form.
type OfferDocument struct {
	Title         string         `json:"title"`
	Source        model.Source   `json:"source"`
	URL           string         `json:"url"`
	ClaimDeadline *string        `json:"claim_deadline"`
	DiscoveredAt  string         `json:"discovered_at"`
	PriceWas      *MoneyDocument `json:"price_was"`
	PriceNow      *MoneyDocument `json:"price_now"`
	Sources       []model.Source `json:"sources"`
	AlternateURLs []string       `json:"alternate_urls"`
}

// MoneyDocument is a price in wire form.
type MoneyDocument struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// NewRunDocument builds the document for one run.
func NewRunDocument(offers []model.MergedOffer, summary model.RunSummary) RunDocument {
	docs := make([]OfferDocument, 0, len(offers))
	for _, o := range offers {
		docs = append(docs, newOfferDocument(o))
	}
	return RunDocument{
		RunID:      summary.RunID.String(),
		StartedAt:  summary.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: summary.FinishedAt.UTC().Format(time.RFC3339),
		Sources:    summary.SourceOutcomes,
		Counts: CountsDocument{
			Raw:        summary.RawCount,
			Normalized: summary.NormalizedCount,
			Rejected:   summary.RejectedCount,
			Merged:     summary.MergedCount,
		},
		Offers: docs,
	}
}

func newOfferDocument(o model.MergedOffer) OfferDocument {
	doc := OfferDocument{
		Title:         o.Title,
		Source:        o.Source,
		URL:           o.URL,
		DiscoveredAt:  o.DiscoveredAt.UTC().Format(time.RFC3339),
		Sources:       o.Sources,
		AlternateURLs: o.AlternateURLs,
	}
	if o.ClaimDeadline != nil {
		s := o.ClaimDeadline.UTC().Format(time.RFC3339)
		doc.ClaimDeadline = &s
	}
	doc.PriceWas = newMoneyDocument(o.PriceWas)
	doc.PriceNow = newMoneyDocument(o.PriceNow)
	return doc
}

func newMoneyDocument(m *model.Money) *MoneyDocument {
	if m == nil {
		return nil
	}
	return &MoneyDocument{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency,
	}
}
