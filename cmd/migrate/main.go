// Command migrate applies the database schema. Production deploys run this
// explicitly; non-production connects apply the schema automatically.
package main

import (
	"log"

	"bazaar/internal/config"
	"bazaar/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Schema up to date")
}
