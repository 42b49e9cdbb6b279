package normalize

import (
	"testing"
	"time"

	"github.com/gamedeals/freegames/internal/model"
)

func testRunContext(now time.Time) model.RunContext {
	rc := model.NewRunContext()
	rc.Now = func() time.Time { return now }
	return rc
}

func TestNormalize_Epic(t *testing.T) {
	fetched := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	listings := []model.RawListing{{
		Source: model.SourceEpic,
		Fields: map[string]string{
			"title":              "Ghost Runner",
			"url":                "https://store.epicgames.com/en-US/p/ghost-runner",
			"endDate":            "2026-09-04T15:00:00.000Z",
			"originalPriceCents": "1999",
			"currencyCode":       "USD",
		},
		FetchedAt: fetched,
	}}

	n := New(nil)
	res := n.Normalize(testRunContext(fetched), listings)

	if res.Rejected != 0 {
		t.Fatalf("rejected = %d, want 0", res.Rejected)
	}
	if len(res.Offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(res.Offers))
	}

	o := res.Offers[0]
	if o.Title != "Ghost Runner" {
		t.Errorf("title = %q, want %q", o.Title, "Ghost Runner")
	}
	if o.MatchKey != "ghost runner" {
		t.Errorf("match key = %q, want %q", o.MatchKey, "ghost runner")
	}
	if o.ClaimDeadline == nil {
		t.Fatal("claim deadline is nil, want parsed")
	}
	wantDeadline := time.Date(2026, 9, 4, 15, 0, 0, 0, time.UTC)
	if !o.ClaimDeadline.Equal(wantDeadline) {
		t.Errorf("claim deadline = %v, want %v", o.ClaimDeadline, wantDeadline)
	}
	if o.PriceWas == nil {
		t.Fatal("price was is nil, want 19.99")
	}
	if got := o.PriceWas.Amount.String(); got != "19.99" {
		t.Errorf("price was = %s, want 19.99", got)
	}
	if o.PriceWas.Currency != "USD" {
		t.Errorf("currency = %q, want USD", o.PriceWas.Currency)
	}
	if o.PriceNow == nil || !o.PriceNow.Amount.IsZero() {
		t.Errorf("price now = %v, want zero", o.PriceNow)
	}
	if !o.DiscoveredAt.Equal(fetched) {
		t.Errorf("discovered at = %v, want %v", o.DiscoveredAt, fetched)
	}
}

func TestNormalize_MissingTitleRejected(t *testing.T) {
	listings := []model.RawListing{
		{Source: model.SourceGOG, Fields: map[string]string{"title": "   ", "url": "https://www.gog.com/giveaway"}},
		{Source: model.SourceGOG, Fields: map[string]string{"title": "Real Game", "url": "https://www.gog.com/giveaway"}},
	}

	n := New(nil)
	res := n.Normalize(testRunContext(time.Now()), listings)

	if res.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", res.Rejected)
	}
	if len(res.Offers) != 1 || res.Offers[0].Title != "Real Game" {
		t.Errorf("offers = %+v, want only Real Game", res.Offers)
	}
}

func TestNormalize_UnparseablePriceIsAbsent(t *testing.T) {
	listings := []model.RawListing{{
		Source: model.SourceItchIO,
		Fields: map[string]string{
			"title": "Tiny Platformer",
			"url":   "https://itch.io/tiny-platformer",
			"price": "Free",
		},
	}}

	n := New(nil)
	res := n.Normalize(testRunContext(time.Now()), listings)

	if len(res.Offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(res.Offers))
	}
	if res.Offers[0].PriceWas != nil {
		t.Errorf("price was = %v, want nil", res.Offers[0].PriceWas)
	}
	if res.Offers[0].PriceNow != nil {
		t.Errorf("price now = %v, want nil", res.Offers[0].PriceNow)
	}
}

func TestNormalize_UnparseableDeadlineIsNil(t *testing.T) {
	listings := []model.RawListing{{
		Source: model.SourceEpic,
		Fields: map[string]string{
			"title":   "Mystery Game",
			"url":     "https://store.epicgames.com/en-US/p/mystery",
			"endDate": "soon",
		},
	}}

	n := New(nil)
	res := n.Normalize(testRunContext(time.Now()), listings)

	if len(res.Offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(res.Offers))
	}
	if res.Offers[0].ClaimDeadline != nil {
		t.Errorf("claim deadline = %v, want nil", res.Offers[0].ClaimDeadline)
	}
}

func TestNormalize_ZeroFetchedAtUsesRunClock(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	listings := []model.RawListing{{
		Source: model.SourceAmazon,
		Fields: map[string]string{"title": "Loot Game", "url": "https://gaming.amazon.com/loot"},
	}}

	n := New(nil)
	res := n.Normalize(testRunContext(now), listings)

	if len(res.Offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(res.Offers))
	}
	if !res.Offers[0].DiscoveredAt.Equal(now) {
		t.Errorf("discovered at = %v, want %v", res.Offers[0].DiscoveredAt, now)
	}
}

func TestMatchKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Cool Game", "cool game"},
		{"cool game!", "cool game"},
		{"XYZ: Definitive Edition", "xyz"},
		{"Control (Epic Exclusive)", "control"},
		{"Mafia: Definitive Edition Remastered", "mafia"},
		{"Fallout 3: Game of the Year Edition", "fallout 3"},
		{"  Spaced   Out  ", "spaced out"},
		{"Definitive Edition", "definitive edition"},
	}

	for _, tt := range tests {
		if got := MatchKey(tt.title); got != tt.want {
			t.Errorf("MatchKey(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestMatchKey_SameGameAcrossStores(t *testing.T) {
	a := MatchKey("Ghostrunner: Deluxe Edition")
	b := MatchKey("Ghostrunner (Deluxe)")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw      string
		currency string
		cents    bool
		want     string // "" means nil
		wantCur  string
	}{
		{"1999", "USD", true, "19.99", "USD"},
		{"0", "USD", true, "", ""},
		{"not-a-number", "USD", true, "", ""},
		{"$19.99", "", false, "19.99", "USD"},
		{"€4.50", "", false, "4.5", "EUR"},
		{"Free", "", false, "", ""},
		{"", "USD", true, "", ""},
	}

	for _, tt := range tests {
		got := parsePrice(tt.raw, tt.currency, tt.cents)
		if tt.want == "" {
			if got != nil {
				t.Errorf("parsePrice(%q) = %v, want nil", tt.raw, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("parsePrice(%q) = nil, want %s", tt.raw, tt.want)
			continue
		}
		if got.Amount.String() != tt.want || got.Currency != tt.wantCur {
			t.Errorf("parsePrice(%q) = %s %s, want %s %s", tt.raw, got.Amount, got.Currency, tt.want, tt.wantCur)
		}
	}
}
