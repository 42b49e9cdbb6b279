package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gamedeals/freegames/internal/adapter"
	"github.com/gamedeals/freegames/internal/aggregator"
	"github.com/gamedeals/freegames/internal/collector"
	"github.com/gamedeals/freegames/internal/config"
	"github.com/gamedeals/freegames/internal/dedup"
	"github.com/gamedeals/freegames/internal/model"
	"github.com/gamedeals/freegames/internal/sink"
	"github.com/gamedeals/freegames/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/aggregator.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Optional .env for local credentials; config expands ${VAR} references.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		// Logger not configured yet.
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting aggregator",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"sources", cfg.Sources.Enabled,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	adapters, err := buildAdapters(cfg, logger)
	if err != nil {
		logger.Error("failed to build adapters", "error", err)
		os.Exit(1)
	}

	agg := aggregator.New(aggregator.Config{
		Collector: collector.Config{
			AdapterTimeout: cfg.Collector.AdapterTimeout,
			Concurrency:    cfg.Collector.Concurrency,
		},
		Dedup: dedup.Config{
			SimilarityThreshold: cfg.Dedup.SimilarityThreshold,
			SourcePriority:      sourcePriority(cfg.Dedup.SourcePriority),
		},
	}, adapters, logger)

	res := agg.Run(ctx)

	if err := writeOutputs(ctx, cfg, res, logger); err != nil {
		logger.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}

	printSummary(res)
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildAdapters constructs one adapter per enabled source, in config order.
func buildAdapters(cfg *config.Config, logger *slog.Logger) ([]adapter.SourceAdapter, error) {
	adapters := make([]adapter.SourceAdapter, 0, len(cfg.Sources.Enabled))
	for _, name := range cfg.Sources.Enabled {
		src, err := model.ParseSource(name)
		if err != nil {
			return nil, err
		}
		a, err := adapter.New(src, adapter.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

func sourcePriority(names []string) []model.Source {
	priority := make([]model.Source, 0, len(names))
	for _, name := range names {
		// Validation already rejected unknown names.
		priority = append(priority, model.Source(name))
	}
	return priority
}

// writeOutputs persists the run through every enabled sink.
func writeOutputs(ctx context.Context, cfg *config.Config, res aggregator.Result, logger *slog.Logger) error {
	if cfg.Output.JSON {
		if _, err := sink.NewJSONSink(cfg.Output.Dir, logger).Write(res.Offers, res.Summary); err != nil {
			return err
		}
	}
	if cfg.Output.CSV {
		if _, err := sink.NewCSVSink(cfg.Output.Dir, logger).Write(res.Offers, res.Summary); err != nil {
			return err
		}
	}
	if cfg.Database.Enabled {
		pool, err := sink.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		pg := sink.NewPostgresSink(pool, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := pg.WriteRun(ctx, res.Offers, res.Summary); err != nil {
			return err
		}
	}
	return nil
}

// printSummary writes the human-readable run report to stdout.
func printSummary(res aggregator.Result) {
	s := res.Summary

	fmt.Printf("\nFree games found: %d (from %d listings, %d rejected)\n",
		s.MergedCount, s.RawCount, s.RejectedCount)

	for _, src := range model.AllSources {
		o, ok := s.SourceOutcomes[src]
		if !ok {
			continue
		}
		if o.OK {
			fmt.Printf("  %-20s %d listings\n", src.DisplayName(), o.Count)
		} else {
			fmt.Printf("  %-20s failed (%s)\n", src.DisplayName(), o.Failure)
		}
	}

	fmt.Println()
	for _, o := range res.Offers {
		deadline := "no known end date"
		if o.ClaimDeadline != nil {
			deadline = "until " + o.ClaimDeadline.UTC().Format(time.RFC1123)
		}
		fmt.Printf("  [%s] %s (%s)\n", o.Source, o.Title, deadline)
	}
}
