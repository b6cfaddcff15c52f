package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-movie-api/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT email, hash, first_name, last_name, dob, address, refresh_token
		 FROM users WHERE email = $1`, strings.TrimSpace(email)).
		Scan(&u.Email, &u.Hash, &u.FirstName, &u.LastName, &u.DOB, &u.Address, &u.RefreshTokenCiphertext)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, email string, hash string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (email, hash) VALUES ($1, $2)`,
		email, hash)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, email string, p model.ProfileUpdate) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, dob = $4, address = $5
		 WHERE email = $1
		 RETURNING email, hash, first_name, last_name, dob, address, refresh_token`,
		email, p.FirstName, p.LastName, p.DOB, p.Address).
		Scan(&u.Email, &u.Hash, &u.FirstName, &u.LastName, &u.DOB, &u.Address, &u.RefreshTokenCiphertext)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// UpdateRefreshToken overwrites the stored sealed refresh token. A nil
// ciphertext clears it.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, email string, ciphertext *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2 WHERE email = $1`,
		email, ciphertext)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
