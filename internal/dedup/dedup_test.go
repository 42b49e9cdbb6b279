package dedup

import (
	"reflect"
	"testing"
	"time"

	"github.com/gamedeals/freegames/internal/model"
	"github.com/gamedeals/freegames/internal/normalize"
)

func offer(src model.Source, title, url string, deadline *time.Time, discovered time.Time) model.Offer {
	return model.Offer{
		Title:         title,
		Source:        src,
		URL:           url,
		ClaimDeadline: deadline,
		DiscoveredAt:  discovered,
		MatchKey:      normalize.MatchKey(title),
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestDedup_MergesEditionVariants(t *testing.T) {
	deadline := time.Date(2026, 9, 4, 15, 0, 0, 0, time.UTC)
	discovered := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	offers := []model.Offer{
		offer(model.SourceAmazon, "Celestial Odyssey", "https://gaming.amazon.com/celestial", nil, discovered),
		offer(model.SourceEpic, "Celestial Odyssey: Definitive Edition", "https://store.epicgames.com/p/celestial", timePtr(deadline), discovered),
	}

	d := New(DefaultConfig(), nil)
	merged := d.Dedup(offers)

	if len(merged) != 1 {
		t.Fatalf("got %d merged offers, want 1", len(merged))
	}

	m := merged[0]
	// The epic offer wins: it knows the claim deadline.
	if m.Source != model.SourceEpic {
		t.Errorf("representative source = %s, want epic", m.Source)
	}
	if m.ClaimDeadline == nil || !m.ClaimDeadline.Equal(deadline) {
		t.Errorf("claim deadline = %v, want %v", m.ClaimDeadline, deadline)
	}
	if want := []model.Source{model.SourceEpic, model.SourceAmazon}; !reflect.DeepEqual(m.Sources, want) {
		t.Errorf("sources = %v, want %v", m.Sources, want)
	}
	if want := []string{"https://gaming.amazon.com/celestial"}; !reflect.DeepEqual(m.AlternateURLs, want) {
		t.Errorf("alternate urls = %v, want %v", m.AlternateURLs, want)
	}
}

func TestDedup_DistinctTitlesStaySeparate(t *testing.T) {
	discovered := time.Now()
	offers := []model.Offer{
		offer(model.SourceEpic, "Kingdom Builders", "https://a", nil, discovered),
		offer(model.SourceSteam, "Dungeon Divers", "https://b", nil, discovered),
	}

	d := New(DefaultConfig(), nil)
	merged := d.Dedup(offers)

	if len(merged) != 2 {
		t.Fatalf("got %d merged offers, want 2", len(merged))
	}
	if merged[0].Title != "Kingdom Builders" || merged[1].Title != "Dungeon Divers" {
		t.Errorf("merged order = [%q %q], want first-seen order", merged[0].Title, merged[1].Title)
	}
}

func TestDedup_SimilarityThreshold(t *testing.T) {
	discovered := time.Now()

	// dist 1 over 10 runes: similarity 0.9, above the 0.85 default.
	near := []model.Offer{
		offer(model.SourceEpic, "abcdefghij", "https://a", nil, discovered),
		offer(model.SourceSteam, "abcdefghiz", "https://b", nil, discovered),
	}
	// dist 5 over 10 runes: similarity 0.5.
	far := []model.Offer{
		offer(model.SourceEpic, "abcdefghij", "https://a", nil, discovered),
		offer(model.SourceSteam, "abcde12345", "https://b", nil, discovered),
	}

	d := New(DefaultConfig(), nil)

	if got := d.Dedup(near); len(got) != 1 {
		t.Errorf("near titles: got %d merged offers, want 1", len(got))
	}
	if got := d.Dedup(far); len(got) != 2 {
		t.Errorf("far titles: got %d merged offers, want 2", len(got))
	}
}

func TestDedup_EarlierDiscoveryWinsWhenDeadlinesMatch(t *testing.T) {
	early := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)

	offers := []model.Offer{
		offer(model.SourceSteam, "Star Forge", "https://steam/starforge", nil, late),
		offer(model.SourceGOG, "Star Forge", "https://gog/starforge", nil, early),
	}

	d := New(DefaultConfig(), nil)
	merged := d.Dedup(offers)

	if len(merged) != 1 {
		t.Fatalf("got %d merged offers, want 1", len(merged))
	}
	if merged[0].Source != model.SourceGOG {
		t.Errorf("representative source = %s, want gog (earlier discovery)", merged[0].Source)
	}
}

func TestDedup_SourcePriorityBreaksTies(t *testing.T) {
	discovered := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

	offers := []model.Offer{
		offer(model.SourceAmazon, "Tie Breaker", "https://amazon/tb", nil, discovered),
		offer(model.SourceEpic, "Tie Breaker", "https://epic/tb", nil, discovered),
	}

	d := New(DefaultConfig(), nil)
	merged := d.Dedup(offers)

	if len(merged) != 1 {
		t.Fatalf("got %d merged offers, want 1", len(merged))
	}
	if merged[0].Source != model.SourceEpic {
		t.Errorf("representative source = %s, want epic (higher priority)", merged[0].Source)
	}
}

func TestDedup_Idempotent(t *testing.T) {
	discovered := time.Now()
	offers := []model.Offer{
		offer(model.SourceEpic, "Echo Chamber", "https://a", nil, discovered),
		offer(model.SourceSteam, "Echo Chamber: Deluxe Edition", "https://b", nil, discovered),
		offer(model.SourceGOG, "Lone Star", "https://c", nil, discovered),
	}

	d := New(DefaultConfig(), nil)
	first := d.Dedup(offers)

	again := make([]model.Offer, len(first))
	for i, m := range first {
		again[i] = m.Offer
	}
	second := d.Dedup(again)

	if len(second) != len(first) {
		t.Errorf("second pass merged %d -> %d, want unchanged", len(first), len(second))
	}
	for i := range second {
		if second[i].Title != first[i].Title {
			t.Errorf("offer %d title = %q, want %q", i, second[i].Title, first[i].Title)
		}
	}
}

func TestDedup_NoDuplicateSourcesOrURLs(t *testing.T) {
	discovered := time.Now()
	offers := []model.Offer{
		offer(model.SourceEpic, "Twin Peaks Game", "https://epic/tp", nil, discovered),
		offer(model.SourceEpic, "Twin Peaks Game", "https://epic/tp", nil, discovered),
	}

	d := New(DefaultConfig(), nil)
	merged := d.Dedup(offers)

	if len(merged) != 1 {
		t.Fatalf("got %d merged offers, want 1", len(merged))
	}
	if len(merged[0].Sources) != 1 {
		t.Errorf("sources = %v, want exactly one entry", merged[0].Sources)
	}
	if len(merged[0].AlternateURLs) != 0 {
		t.Errorf("alternate urls = %v, want none", merged[0].AlternateURLs)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"same", "same", 1},
		{"", "", 1},
		{"abcdefghij", "abcdefghiz", 0.9},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		if got := similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
