package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamedeals/freegames/internal/config"
	"github.com/gamedeals/freegames/internal/model"
)

// BuildConnString builds a PostgreSQL connection string from config.
func BuildConnString(cfg config.DatabaseConfig) string {
	// URL-encode password to handle special characters
	escapedPassword := url.QueryEscape(cfg.Password)

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		escapedPassword,
		cfg.Host,
		cfg.Port,
		cfg.Name,
		sslMode,
	)
}

// Connect creates a connection pool and verifies it.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	raw         INT NOT NULL,
	normalized  INT NOT NULL,
	rejected    INT NOT NULL,
	merged      INT NOT NULL
);

CREATE TABLE IF NOT EXISTS offers (
	run_id         UUID NOT NULL REFERENCES runs (run_id),
	title          TEXT NOT NULL,
	source         TEXT NOT NULL,
	url            TEXT NOT NULL,
	claim_deadline TIMESTAMPTZ,
	discovered_at  TIMESTAMPTZ NOT NULL,
	price_was      NUMERIC(12, 2),
	price_now      NUMERIC(12, 2),
	currency       TEXT,
	match_key      TEXT NOT NULL,
	PRIMARY KEY (run_id, match_key)
);
`

// PostgresSink batch-inserts finished runs.
type PostgresSink struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresSink creates a PostgresSink over an existing pool.
func NewPostgresSink(db *pgxpool.Pool, logger *slog.Logger) *PostgresSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSink{db: db, logger: logger}
}

// EnsureSchema creates the runs and offers tables when missing.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// offerRow is the database shape of one merged offer.
type offerRow struct {
	Title         string
	Source        string
	URL           string
	ClaimDeadline *time.Time
	DiscoveredAt  time.Time
	PriceWas      *string
	PriceNow      *string
	Currency      *string
	MatchKey      string
}

// WriteRun inserts the run header and its offers in one batch. Offer
// inserts use ON CONFLICT DO NOTHING, so replaying a run is harmless.
func (s *PostgresSink) WriteRun(ctx context.Context, offers []model.MergedOffer, summary model.RunSummary) error {
	start := time.Now()

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO runs (run_id, started_at, finished_at, raw, normalized, rejected, merged)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO NOTHING
	`, summary.RunID, summary.StartedAt, summary.FinishedAt,
		summary.RawCount, summary.NormalizedCount, summary.RejectedCount, summary.MergedCount)

	for _, o := range offers {
		r := transform(o)
		batch.Queue(`
			INSERT INTO offers (run_id, title, source, url, claim_deadline, discovered_at, price_was, price_now, currency, match_key)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (run_id, match_key) DO NOTHING
		`, summary.RunID, r.Title, r.Source, r.URL, r.ClaimDeadline, r.DiscoveredAt, r.PriceWas, r.PriceNow, r.Currency, r.MatchKey)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	conflicts := 0
	for i := 0; i < batch.Len(); i++ {
		ct, err := results.Exec()
		if err != nil {
			return fmt.Errorf("batch insert: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	s.logger.Info("wrote run to postgres",
		"run_id", summary.RunID,
		"offers", len(offers),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// transform converts a MergedOffer to an offerRow.
func transform(o model.MergedOffer) offerRow {
	r := offerRow{
		Title:         o.Title,
		Source:        string(o.Source),
		URL:           o.URL,
		ClaimDeadline: o.ClaimDeadline,
		DiscoveredAt:  o.DiscoveredAt,
		MatchKey:      o.MatchKey,
	}
	if o.PriceWas != nil {
		was := o.PriceWas.Amount.StringFixed(2)
		r.PriceWas = &was
		r.Currency = &o.PriceWas.Currency
	}
	if o.PriceNow != nil {
		now := o.PriceNow.Amount.StringFixed(2)
		r.PriceNow = &now
	}
	return r
}
