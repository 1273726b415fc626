package users

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/server/models"
)

// InMemoryRepository is a map-backed credential store used in tests and the
// in-memory repository manager. The mutex gives Create the same atomic
// uniqueness guarantee the Postgres unique index provides.
type InMemoryRepository struct {
	mu     sync.Mutex
	byName map[string]*models.User
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byName: make(map[string]*models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrAlreadyExists
	}

	r.nextID++
	stored := *user
	stored.ID = strconv.Itoa(r.nextID)
	stored.CreatedAt = time.Now()
	r.byName[user.UserName] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byName[userName]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r *InMemoryRepository) ConfirmTOTP(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byName {
		if user.ID == userID {
			user.TOTPConfirmed = true
			return nil
		}
	}
	return common.ErrNotFound
}
