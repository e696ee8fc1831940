package repositories

import (
	"context"
	"errors"
	"fmt"

	"josenian-borrowease/internal/adapters/persistence/models"
	"josenian-borrowease/internal/core/domain"

	"gorm.io/gorm"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// wrapErr translates a gorm error into the domain taxonomy: missing rows
// become ErrNotFound, everything else is a store failure and the only kind
// callers may retry.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
