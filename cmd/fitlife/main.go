package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/claude/fitlife/internal/auth"
	"github.com/claude/fitlife/internal/config"
	"github.com/claude/fitlife/internal/live"
	"github.com/claude/fitlife/internal/mcp"
	"github.com/claude/fitlife/internal/plans"
	"github.com/claude/fitlife/internal/server"
	"github.com/claude/fitlife/internal/storage"
	"github.com/claude/fitlife/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "open the database, apply the schema and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("FitLife starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Database, "migrations")
	if err != nil {
		log.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("database ready", "driver", cfg.Database.Driver)

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	authSvc := auth.NewService(store,
		auth.WithTokenTTL(cfg.Auth.TokenTTL),
		auth.WithLogger(log.With("component", "auth")),
	)
	if err := authSvc.Seed(ctx); err != nil {
		log.Error("seeding demo users failed", "error", err)
		os.Exit(1)
	}

	gen := workout.NewGenerator(workout.WithLogger(log.With("component", "generator")))
	registry := live.NewRegistry(store,
		live.WithLogger(log.With("component", "live")),
		live.WithWeight(cfg.Tracking.DefaultWeightKg),
		live.WithIndoorSpeed(cfg.Tracking.IndoorSpeedKmh),
	)

	supervisor := live.NewSupervisor(registry, log.With("component", "ticker"), cfg.Tracking.TickInterval)
	supervisor.Start(ctx)
	defer supervisor.Stop()

	sweeper, err := live.NewSweeper(cfg.Tracking.SweepSchedule, registry, authSvc, cfg.Tracking.IdleTimeout, log.With("component", "sweeper"))
	if err != nil {
		log.Error("invalid sweep schedule", "schedule", cfg.Tracking.SweepSchedule, "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	srv := server.New(server.Deps{
		Store:     store,
		Auth:      authSvc,
		Plans:     plans.NewService(store),
		Generator: gen,
		Live:      registry,
	}, cfg.Auth.APIKey, log)
	srv.MountMCP(mcp.New(store, gen, Version, log.With("component", "mcp")))

	// Listen on the tailnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "plain http")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	sessions, tracks := registry.Counts()
	log.Info("server stopped", "abandoned_sessions", sessions, "abandoned_tracks", tracks)
}
