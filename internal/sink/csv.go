package sink

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamedeals/freegames/internal/model"
)

var csvHeader = []string{
	"title",
	"source",
	"url",
	"claim_deadline",
	"discovered_at",
	"price_was",
	"price_now",
	"sources",
	"alternate_urls",
}

// CSVSink writes one row per merged offer. Run metadata lives in the JSON
// sink; the CSV is the flat spreadsheet-friendly view.
type CSVSink struct {
	dir    string
	logger *slog.Logger
}

// NewCSVSink creates a CSVSink writing into dir.
func NewCSVSink(dir string, logger *slog.Logger) *CSVSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{dir: dir, logger: logger}
}

// Write persists the run and returns the file path.
func (s *CSVSink) Write(offers []model.MergedOffer, summary model.RunSummary) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("free_games_%s.csv", summary.StartedAt.UTC().Format(fileTimestampLayout))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, doc := range NewRunDocument(offers, summary).Offers {
		if err := w.Write(csvRecord(doc)); err != nil {
			return "", fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	s.logger.Info("wrote csv output", "path", path, "offers", len(offers))
	return path, nil
}

func csvRecord(doc OfferDocument) []string {
	sources := make([]string, 0, len(doc.Sources))
	for _, src := range doc.Sources {
		sources = append(sources, string(src))
	}
	return []string{
		doc.Title,
		string(doc.Source),
		doc.URL,
		stringOrEmpty(doc.ClaimDeadline),
		doc.DiscoveredAt,
		moneyOrEmpty(doc.PriceWas),
		moneyOrEmpty(doc.PriceNow),
		strings.Join(sources, "|"),
		strings.Join(doc.AlternateURLs, "|"),
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func moneyOrEmpty(m *MoneyDocument) string {
	if m == nil {
		return ""
	}
	return m.Amount + " " + m.Currency
}
