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

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	shredly "github.com/wabbazzar/shredly2-sub003"
	"github.com/wabbazzar/shredly2-sub003/internal/config"
	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
	"github.com/wabbazzar/shredly2-sub003/internal/mcp"
	"github.com/wabbazzar/shredly2-sub003/internal/program"
	"github.com/wabbazzar/shredly2-sub003/internal/server"
	"github.com/wabbazzar/shredly2-sub003/internal/session"
	"github.com/wabbazzar/shredly2-sub003/internal/storage"
	"github.com/wabbazzar/shredly2-sub003/internal/timer"
	"github.com/wabbazzar/shredly2-sub003/internal/ws"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Shredly starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Load the embedded exercise catalog
	catalog, err := exercises.Load(shredly.DataFS, "data/exercises.json")
	if err != nil {
		log.Error("failed to load exercise database", "error", err)
		os.Exit(1)
	}
	log.Info("exercise database loaded", "exercises", catalog.Total())
	generator := program.NewGenerator(catalog)

	// Local flight recorder for timer events
	journalDir := cfg.Journal.Dir
	if journalDir == "" {
		journalDir = "data"
	}
	journal, err := session.OpenJournal(journalDir)
	if err != nil {
		log.Error("failed to open session journal", "error", err)
		os.Exit(1)
	}
	defer journal.Close()

	// Timer engine, event hub, and session manager
	engine := timer.New(timer.Options{
		TickInterval:       cfg.Timer.TickInterval(),
		CountdownSeconds:   cfg.Timer.CountdownSeconds,
		CueFromSeconds:     cfg.Timer.CueFromSeconds,
		DefaultRepSeconds:  cfg.Timer.DefaultRepSeconds,
		DefaultWorkSeconds: cfg.Timer.DefaultWorkSeconds,
		DefaultRestSeconds: cfg.Timer.DefaultRestSeconds,
		MinRestSeconds:     cfg.Timer.MinRestSeconds,
	})
	defer engine.Stop()

	hub := ws.NewHub()
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()
	go hub.Run(hubCtx)

	manager := session.NewManager(engine, db, journal, hub, log)
	defer manager.Close()

	// HTTP server with the MCP transport mounted alongside the API
	srv := server.New(db, manager, catalog, generator, hub, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(db, manager, catalog, generator, Version, log)
	srv.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
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
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
