package memory

import (
	"context"
	"fmt"

	"document-qa-be/internal/entity"
	"document-qa-be/internal/repository/contract"
	"document-qa-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// UnitOfWork applies writes immediately. Rollback restores the snapshot
// taken at Begin; writes from concurrent units are not isolated.
type UnitOfWork struct {
	store    *Store
	snapshot *snapshot
}

type snapshot struct {
	documents map[uuid.UUID]*entity.Document
	chunks    []*entity.ChunkVector
}

type RepositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &RepositoryFactory{store: store}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.snapshot != nil {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	snap := &snapshot{
		documents: make(map[uuid.UUID]*entity.Document, len(u.store.documents)),
		chunks:    make([]*entity.ChunkVector, len(u.store.chunks)),
	}
	for id, d := range u.store.documents {
		snap.documents[id] = d
	}
	copy(snap.chunks, u.store.chunks)
	u.snapshot = snap
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.snapshot == nil {
		return fmt.Errorf("no transaction to commit")
	}
	u.snapshot = nil
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.snapshot == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.mu.Lock()
	u.store.documents = u.snapshot.documents
	u.store.chunks = u.snapshot.chunks
	u.store.mu.Unlock()
	u.snapshot = nil
	return nil
}

func (u *UnitOfWork) DocumentRepository() contract.DocumentRepository {
	return NewDocumentRepository(u.store)
}

func (u *UnitOfWork) ChunkVectorRepository() contract.ChunkVectorRepository {
	return NewChunkVectorRepository(u.store)
}
