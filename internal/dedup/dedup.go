package dedup

import (
	"log/slog"

	"github.com/agnivade/levenshtein"

	"github.com/gamedeals/freegames/internal/model"
)

// Config holds deduplication settings.
type Config struct {
	// SimilarityThreshold is the minimum normalized title similarity,
	// in (0, 1], for two distinct match keys to merge (default: 0.85).
	SimilarityThreshold float64

	// SourcePriority ranks storefronts for representative selection and
	// source ordering; earlier entries win ties.
	SourcePriority []model.Source
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.85,
		SourcePriority:      model.AllSources,
	}
}

// Deduplicator groups offers by title similarity and picks one
// representative per group.
type Deduplicator struct {
	cfg    Config
	logger *slog.Logger
	rank   map[model.Source]int
}

// New creates a Deduplicator.
func New(cfg Config, logger *slog.Logger) *Deduplicator {
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		cfg.SimilarityThreshold = DefaultConfig().SimilarityThreshold
	}
	if len(cfg.SourcePriority) == 0 {
		cfg.SourcePriority = DefaultConfig().SourcePriority
	}
	if logger == nil {
		logger = slog.Default()
	}

	rank := make(map[model.Source]int, len(cfg.SourcePriority))
	for i, src := range cfg.SourcePriority {
		rank[src] = i
	}
	return &Deduplicator{cfg: cfg, logger: logger, rank: rank}
}

// group collects the offers that matched one key. The key is the first
// member's match key and never changes, so membership does not drift as
// the group grows.
type group struct {
	key    string
	offers []model.Offer
}

// Dedup merges duplicate offers. Groups come back in first-seen order;
// running Dedup over its own output is a no-op.
func (d *Deduplicator) Dedup(offers []model.Offer) []model.MergedOffer {
	var groups []*group
	for _, o := range offers {
		g := d.findGroup(groups, o.MatchKey)
		if g == nil {
			g = &group{key: o.MatchKey}
			groups = append(groups, g)
		}
		g.offers = append(g.offers, o)
	}

	merged := make([]model.MergedOffer, 0, len(groups))
	for _, g := range groups {
		merged = append(merged, d.merge(g))
	}

	d.logger.Info("deduplication complete",
		"offers", len(offers),
		"merged", len(merged),
	)
	return merged
}

func (d *Deduplicator) findGroup(groups []*group, key string) *group {
	for _, g := range groups {
		if g.key == key || similarity(g.key, key) >= d.cfg.SimilarityThreshold {
			return g
		}
	}
	return nil
}

// merge builds one MergedOffer: the representative offer plus the union of
// contributing sources and URLs.
func (d *Deduplicator) merge(g *group) model.MergedOffer {
	rep := g.offers[0]
	for _, o := range g.offers[1:] {
		if d.better(o, rep) {
			rep = o
		}
	}

	m := model.MergedOffer{Offer: rep}

	seen := make(map[model.Source]bool, len(g.offers))
	for _, o := range g.offers {
		seen[o.Source] = true
	}
	for _, src := range d.cfg.SourcePriority {
		if seen[src] {
			m.Sources = append(m.Sources, src)
			delete(seen, src)
		}
	}
	// Sources outside the priority list keep first-seen order.
	for _, o := range g.offers {
		if seen[o.Source] {
			m.Sources = append(m.Sources, o.Source)
			delete(seen, o.Source)
		}
	}

	seenURL := map[string]bool{rep.URL: true, "": true}
	for _, o := range g.offers {
		if !seenURL[o.URL] {
			m.AlternateURLs = append(m.AlternateURLs, o.URL)
			seenURL[o.URL] = true
		}
	}

	return m
}

// better reports whether a beats b as group representative: a known claim
// deadline wins over an unknown one, then the earlier discovery, then the
// higher-priority source.
func (d *Deduplicator) better(a, b model.Offer) bool {
	if (a.ClaimDeadline != nil) != (b.ClaimDeadline != nil) {
		return a.ClaimDeadline != nil
	}
	if !a.DiscoveredAt.Equal(b.DiscoveredAt) {
		return a.DiscoveredAt.Before(b.DiscoveredAt)
	}
	return d.sourceRank(a.Source) < d.sourceRank(b.Source)
}

func (d *Deduplicator) sourceRank(src model.Source) int {
	if r, ok := d.rank[src]; ok {
		return r
	}
	return len(d.rank)
}

// similarity is 1 - dist/maxLen over the two match keys, in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
