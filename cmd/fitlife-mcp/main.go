package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/fitlife/internal/config"
	"github.com/claude/fitlife/internal/mcp"
	"github.com/claude/fitlife/internal/storage"
	"github.com/claude/fitlife/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// fitlife-mcp serves the MCP tools over stdio. With -remote it reads history
// from a running FitLife server; otherwise it opens the configured database.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("remote", "", "base URL of a FitLife server, e.g. http://fitlife")
	apiKey := flag.String("api-key", os.Getenv("FITLIFE_AUTH_API_KEY"), "API key for -remote")
	userID := flag.Int("user", 1, "user whose history is served")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *remote != "" {
		ds = mcp.NewHTTPClient(*remote, *apiKey)
		log.Info("remote mode", "url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		store, err := storage.Open(context.Background(), cfg.Database, "migrations")
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		ds = store
	}

	s := mcp.New(ds, workout.NewGenerator(workout.WithLogger(log)), Version, log)
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("stdio server stopped", "error", err)
		os.Exit(1)
	}
}
