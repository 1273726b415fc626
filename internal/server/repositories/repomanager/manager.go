// Package repomanager wires the concrete repositories to a storage backend
// and owns the database lifecycle (open, migrate, close).
package repomanager

import (
	"context"

	"github.com/dberezin/securenotes/internal/server/repositories/notes"
	"github.com/dberezin/securenotes/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Notes() notes.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
