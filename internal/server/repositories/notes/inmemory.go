package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository is a map-backed note store used in tests and the
// in-memory repository manager.
type InMemoryRepository struct {
	mu    sync.RWMutex
	notes map[string]*models.Note
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{notes: make(map[string]*models.Note)}
}

func (r *InMemoryRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *note
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	r.notes[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Note
	for _, n := range r.notes {
		if n.UserID == ownerID {
			out := *n
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, ownerID, id string, patch *models.NotePatch) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, ok := r.notes[id]
	if !ok || note.UserID != ownerID {
		return nil, common.ErrNotFound
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Tags != nil {
		note.Tags = *patch.Tags
	}
	note.UpdatedAt = time.Now()

	out := *note
	return &out, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, ok := r.notes[id]
	if !ok || note.UserID != ownerID {
		return common.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}
