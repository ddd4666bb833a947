package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// .env is read before flags so flags win over it
	cfg := LoadConfig(envOr("ASTEROIDS_ENV_FILE", ".env"))
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty disables accounts and run history)")
	flag.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Base URL encoded in session QR codes")
	flag.IntVar(&cfg.MaxSessions, "max-sessions", cfg.MaxSessions, "Maximum concurrent sessions")
	flag.IntVar(&cfg.EnemyTarget, "enemies", cfg.EnemyTarget, "Enemies kept alive per session")
	flag.Float64Var(&cfg.AsteroidDensity, "density", cfg.AsteroidDensity, "Asteroids per unit of visible radius")
	flag.Parse()

	var db *DB
	if cfg.DBPath != "" {
		var err error
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("open database %s: %v", cfg.DBPath, err)
		}
		defer db.Close()
	}

	hub := NewHub(cfg, db)
	go hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.sessions.RunJanitor(ctx, 30*time.Second)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub, cfg)}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	server.Shutdown(shutdownCtx)
	hub.sessions.Shutdown()
	hub.analytics.Stop()
}
