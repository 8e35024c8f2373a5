// Command main inserts fake posts for local development. The Post table must already exist.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/middleware"
	"postboard/internal/repository"
	"postboard/internal/seed"
)

func main() {
	n := flag.Int("n", 20, "Number of posts to create")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	log.Println("Post seeder")
	log.Printf("Target: %d posts\n", *n)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Probe(ctx, db); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}

	factory := seed.NewFactory(repository.NewPostRepository(db), *seedValue)
	posts, err := factory.SeedPosts(ctx, *n)
	if err != nil {
		log.Fatalf("Seeding failed after %d posts: %v", len(posts), err)
	}

	log.Printf("Created %d posts", len(posts))
}
