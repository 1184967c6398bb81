package main

import (
	"log"
	"net/http"
	"os"

	"anisbee/internal/config"
	"anisbee/internal/db"
	"anisbee/internal/lunch"
	"anisbee/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		// Rounds still run in memory; history and restarts lose data.
		log.Printf("database unavailable, running without persistence: %v", err)
		conn = nil
	}
	if conn != nil {
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	engine := lunch.New(conn, cfg)
	scheduler := lunch.NewScheduler(engine)
	scheduler.Start()
	defer scheduler.Stop()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(conn, engine, cfg)
	log.Printf("anisbee server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
