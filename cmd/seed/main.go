package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"time"

	_ "github.com/lib/pq"

	"liblend-backend/internal/config"
	"liblend-backend/internal/domain"
	"liblend-backend/internal/repository/postgres"
	"liblend-backend/internal/seed"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	fixturePath := flag.String("fixture", "", "Path to a YAML book fixture (defaults to the built-in starter catalog)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Store.Type != "postgres" {
		log.Fatalf("Seeding requires the postgres store; the memory store seeds itself at startup")
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Printf("✓ Connected to database: %s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	now := time.Now().UTC()
	var books []domain.Book
	if *fixturePath != "" {
		books, err = seed.LoadFixture(*fixturePath, now)
		if err != nil {
			log.Fatalf("Failed to load fixture %s: %v", *fixturePath, err)
		}
		log.Printf("✓ Loaded %d books from %s", len(books), *fixturePath)
	} else {
		books = seed.SampleBooks(now)
		log.Printf("✓ Using built-in starter catalog (%d books)", len(books))
	}

	store := postgres.NewStore(db)
	created, err := seed.Populate(context.Background(), store.BookRepository, books)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	log.Printf("✅ Catalog seeded: %d created, %d already present", created, len(books)-created)
}
