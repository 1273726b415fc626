package users

import (
	"context"

	"github.com/dberezin/securenotes/internal/server/models"
)

// Repository is the credential store consumed by the authentication service.
// Create must enforce username uniqueness atomically (a unique constraint,
// not check-then-insert), so concurrent signups for the same name resolve to
// exactly one success.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	ConfirmTOTP(ctx context.Context, userID string) error
}
