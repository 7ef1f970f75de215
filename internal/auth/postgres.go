package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists users in Postgres through a pgx pool.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

const userColumns = `id::text, name, email, password_hash,
	reset_token_hash, reset_token_expires, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.ResetTokenHash,
		&u.ResetTokenExpires,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	u := &User{Name: name, Email: strings.ToLower(email), PasswordHash: passwordHash}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id::text, created_at`,
		u.Name, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1::uuid`, id))
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(email)))
}

func (s *PostgresStore) SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	ct, err := s.Pool.Exec(ctx,
		`UPDATE users SET reset_token_hash = $2, reset_token_expires = $3
		 WHERE id = $1::uuid`,
		userID, tokenHash, expires,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStore) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE reset_token_hash = $1 AND reset_token_expires > $2`,
		tokenHash, now))
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	ct, err := s.Pool.Exec(ctx,
		`UPDATE users
		 SET password_hash = $2, reset_token_hash = NULL, reset_token_expires = NULL
		 WHERE id = $1::uuid`,
		userID, passwordHash,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteCascade removes the user's applications and the user in one
// transaction, so there is no window where the identity outlives a partial
// delete.
func (s *PostgresStore) DeleteCascade(ctx context.Context, userID string) (int64, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx,
		`DELETE FROM applications WHERE user_id = $1::uuid`, userID)
	if err != nil {
		return 0, err
	}
	deleted := ct.RowsAffected()

	ut, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, userID)
	if err != nil {
		return 0, err
	}
	if ut.RowsAffected() == 0 {
		return 0, ErrUserNotFound
	}

	return deleted, tx.Commit(ctx)
}
