// Command main seeds the blog store with generated or fixture data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"blog/internal/bootstrap"
	"blog/internal/config"
	"blog/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 30, "Number of posts to create")
	fixture := flag.String("fixture", "", "YAML fixture to load instead of generated data")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated data")
	flag.Parse()

	log.Println("🌱 Blog Seeder")
	log.Println("==============")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	store, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("error closing storage backend: %v", err)
		}
	}()

	s := seed.NewSeeder(store, *seedValue)

	var res seed.Result
	if *fixture != "" {
		log.Printf("Loading fixture %s", *fixture)
		f, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("❌ Fixture load failed: %v", err)
		}
		res, err = s.ApplyFixture(ctx, f)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	} else {
		log.Printf("Target: %d users, %d posts", *numUsers, *numPosts)
		res, err = s.SeedRandom(ctx, *numUsers, *numPosts)
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Printf("✨ Done: %d users, %d posts, %d reactions", res.Users, res.Posts, res.Reactions)
}
