package account

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account

	err := row.Scan(
		&a.ID,
		&a.Kind,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) CreateAccount(ctx context.Context, a Account) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (kind, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, kind, first_name, last_name, email, created_at
	`, a.Kind, a.FirstName, a.LastName, a.Email)

	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetAccountByID(ctx context.Context, id int64) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, kind, first_name, last_name, email, created_at
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (r *PgRepository) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, kind, first_name, last_name, email, created_at
		FROM accounts
		WHERE email = $1
	`, email)
	return scanAccount(row)
}

func (r *PgRepository) DeleteAccount(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
