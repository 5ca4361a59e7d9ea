package unitofwork

import (
	"context"

	"document-qa-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	ChunkVectorRepository() contract.ChunkVectorRepository
}
