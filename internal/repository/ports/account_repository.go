package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, username, email, passwordHash string, role domain.Role) (*domain.Account, error)
	UpsertGoogleAccount(ctx context.Context, username, email string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	FindByResetSecretHash(ctx context.Context, hash string, now time.Time) (*domain.Account, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetResetSecret(ctx context.Context, id uuid.UUID, hash string, expiry time.Time) error
	ClearResetSecret(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]domain.Account, error)
}
