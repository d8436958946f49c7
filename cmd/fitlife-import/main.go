package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/fitlife/internal/config"
	"github.com/claude/fitlife/internal/importer"
	"github.com/claude/fitlife/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dir := flag.String("path", "", "directory of .gpx / .gpx.gz files (required)")
	userID := flag.Int("user", 1, "user to store the activities for")
	activity := flag.String("activity", "running", "activity for tracks without a recognised <type>")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitlife-import -config config.yaml -path /path/to/tracks [-user N] [-activity running] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("track path does not exist or is not a directory", "path", *dir)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("dry run: no data will be written to the database")
	}

	store, err := storage.Open(ctx, cfg.Database, "migrations")
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	imp := importer.New(store, log,
		importer.WithUser(*userID),
		importer.WithActivity(*activity),
		importer.WithWeight(cfg.Tracking.DefaultWeightKg),
		importer.WithDryRun(*dryRun),
	)
	stats, err := imp.Import(ctx, *dir)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	if stats == nil {
		return
	}
	log.Info("import stats",
		"files_seen", stats.FilesSeen,
		"files_imported", stats.FilesImported,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"tracks", stats.TracksImported,
		"distance_km", fmt.Sprintf("%.2f", stats.DistanceKm),
	)
}
