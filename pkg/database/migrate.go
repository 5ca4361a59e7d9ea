package database

import (
	"fmt"

	"document-qa-be/internal/model"

	"gorm.io/gorm"
)

// Migrate creates the schema: extensions, tables, the embedding column at
// the configured dimension and the HNSW cosine index used by search.
func Migrate(db *gorm.DB, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", dimension)
	}

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup %q: %w", sql, err)
		}
	}

	if err := db.AutoMigrate(&model.Document{}, &model.ChunkVector{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	postSQL := []string{
		// An index cannot be built on a dimensionless vector column.
		fmt.Sprintf(`ALTER TABLE chunk_vectors ALTER COLUMN embedding TYPE vector(%d);`, dimension),
		`CREATE INDEX IF NOT EXISTS idx_chunk_vectors_embedding_hnsw ON chunk_vectors USING hnsw (embedding vector_cosine_ops);`,
	}
	for _, sql := range postSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("post migrate %q: %w", sql, err)
		}
	}
	return nil
}
