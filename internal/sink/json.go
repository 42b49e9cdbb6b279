package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gamedeals/freegames/internal/model"
)

const fileTimestampLayout = "20060102_150405"

// JSONSink writes one run document per run as pretty-printed JSON.
type JSONSink struct {
	dir    string
	logger *slog.Logger
}

// NewJSONSink creates a JSONSink writing into dir.
func NewJSONSink(dir string, logger *slog.Logger) *JSONSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONSink{dir: dir, logger: logger}
}

// Write persists the run and returns the file path. Filenames are keyed by
// the run's start time, so successive runs never clobber each other.
func (s *JSONSink) Write(offers []model.MergedOffer, summary model.RunSummary) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	doc := NewRunDocument(offers, summary)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run document: %w", err)
	}
	data = append(data, '\n')

	name := fmt.Sprintf("free_games_%s.json", summary.StartedAt.UTC().Format(fileTimestampLayout))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.Info("wrote json output", "path", path, "offers", len(offers))
	return path, nil
}
