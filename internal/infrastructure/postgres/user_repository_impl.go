package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-user-credential/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-credential/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, password_salt, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID(), u.Name(), u.Email(), u.PasswordHash(), u.PasswordSalt(), u.IsEmailVerified())
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, password_salt, email_verified
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, password_salt, email_verified
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

// Update persists the mutable state: the credential pair and the verification flag.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, password_salt = $2, email_verified = $3, updated_at = now()
		WHERE id = $4
	`, u.PasswordHash(), u.PasswordSalt(), u.IsEmailVerified(), u.ID())
	if err != nil {
		return translate(err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		id       uuid.UUID
		name     string
		email    string
		hash     []byte
		salt     []byte
		verified bool
	)
	if err := row.Scan(&id, &name, &email, &hash, &salt, &verified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entity.Rehydrate(id, name, email, hash, salt, verified), nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrEmailTaken
	}
	return fmt.Errorf("db error: %w", err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
