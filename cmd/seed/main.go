// Command seed populates the database with demo marketplace data.
package main

import (
	"flag"
	"log"

	"bazaar/internal/config"
	"bazaar/internal/database"
	"bazaar/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numListings := flag.Int("listings", 100, "Number of listings to create")
	maxDays := flag.Int("max-days", 60, "Backdating window for listings, in days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seeder := seed.NewSeeder(db)
	if *shouldClean {
		if err := seeder.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := seeder.SeedMarketplace(seed.Options{
		NumUsers:    *numUsers,
		NumListings: *numListings,
		MaxDays:     *maxDays,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done. All accounts use the password %q.", seed.DemoPassword)
}
