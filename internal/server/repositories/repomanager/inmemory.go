package repomanager

import (
	"context"

	"github.com/dberezin/securenotes/internal/server/repositories/notes"
	"github.com/dberezin/securenotes/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs the repositories with process memory.
// Used in tests and for running the server without a database.
type InMemoryRepositoryManager struct {
	users users.Repository
	notes notes.Repository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Notes() notes.Repository {
	return m.notes
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewInMemoryRepository(),
		notes: notes.NewInMemoryRepository(),
	}
}
