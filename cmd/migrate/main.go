package main

import (
	"log"

	"document-qa-be/internal/config"
	"document-qa-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	if cfg.Ai.EmbeddingDimension <= 0 {
		log.Fatalf("Error: EMBEDDING_DIMENSION must be positive, got %d", cfg.Ai.EmbeddingDimension)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment == "production")
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Starting migration (embedding dimension %d)...", cfg.Ai.EmbeddingDimension)

	// 3. Extensions, tables, vector column and HNSW index
	if err := database.Migrate(db, cfg.Ai.EmbeddingDimension); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
