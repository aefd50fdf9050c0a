package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rogerioalves7/domo-1/internal/shared"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) InsertUser(ctx context.Context, u *User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUser
		}
		return fmt.Errorf("auth: insert user: %w", err)
	}
	return nil
}

func (r *pgRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: get user: %w", err)
	}
	return &u, nil
}

func (r *pgRepository) ResolveActor(ctx context.Context, userID int64) (*shared.Actor, error) {
	var actor shared.Actor
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email,
		       COALESCE(m.house_id, 0), COALESCE(m.role, '')
		FROM users u
		LEFT JOIN house_members m ON m.user_id = u.id
		WHERE u.id = $1`,
		userID,
	).Scan(&actor.UserID, &actor.Username, &actor.Email, &actor.HouseID, &actor.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: resolve actor: %w", err)
	}
	return &actor, nil
}
