package auth

import (
	"context"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// UserRepository defines the storage contract for accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string, role domain.Role) (string, error)
}
