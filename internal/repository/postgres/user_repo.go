package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"renovatrack/internal/model"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (username, password_hash, role, created_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (username) DO NOTHING
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, u.Username, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		// Conflict yields no row; the account already exists and that is fine
		// for startup seeding.
		existing, ferr := r.FindByUsername(ctx, u.Username)
		if ferr != nil {
			return mapErr(err)
		}
		*u = *existing
	}
	return nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
        SELECT id, username, password_hash, role, created_at
        FROM users
        WHERE username = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}
