package domain

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Username          string     `db:"username" json:"username"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	Role              Role       `db:"role" json:"role"`
	IsVerified        bool       `db:"is_verified" json:"is_verified"`
	ResetSecretHash   *string    `db:"reset_secret_hash" json:"-"`
	ResetSecretExpiry *time.Time `db:"reset_secret_expiry" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Public returns the projection of the account that is safe to hand to
// clients: no password hash, no reset secret state.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Role:       a.Role,
		IsVerified: a.IsVerified,
		CreatedAt:  a.CreatedAt,
	}
}

type PublicAccount struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}
