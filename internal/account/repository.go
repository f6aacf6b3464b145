package account

import (
	"context"
	"errors"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// Repository contains the account lookups and lifecycle operations the
// scheduler and the seeder need. Registration and sign-in flows live in an
// external layer; this repository only deals in persisted records.
type Repository interface {
	CreateAccount(ctx context.Context, a Account) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// DeleteAccount removes the account and, through the storage layer's
	// cascade, every service, availability window and booking it owns.
	DeleteAccount(ctx context.Context, id int64) error
}
