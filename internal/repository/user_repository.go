package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/accounts-service/internal/domain"
)

// Sentinel failures distinct from infrastructure faults.
var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const pgUniqueViolation = "23505"

// UserRepository defines persistence access for accounts. Lookups are
// filtered to ACTIVE accounts: soft-deleted users are invisible to
// authentication and to handlers that resolve tokens.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id, fullName string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, salt, hash string) error
	Deactivate(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, full_name, salt, password, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Salt,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, email, full_name, salt, password, role, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.Salt,
		user.PasswordHash,
		user.Role,
		user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE id=$1 AND status=$2 LIMIT 1`

	return scanUser(r.pool.QueryRow(ctx, query, id, domain.UserStatusActive))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE email=$1 AND status=$2 LIMIT 1`

	return scanUser(r.pool.QueryRow(ctx, query, email, domain.UserStatusActive))
}

func (r *userRepository) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users ORDER BY created_at OFFSET $1 LIMIT $2`

	rows, err := r.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateProfile(ctx context.Context, id, fullName string) (*domain.User, error) {
	const query = `
        UPDATE users SET full_name=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3
        RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query, fullName, id, domain.UserStatusActive))
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, salt, hash string) error {
	const query = `
        UPDATE users SET salt=$1, password=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4`

	cmd, err := r.pool.Exec(ctx, query, salt, hash, id, domain.UserStatusActive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        UPDATE users SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3
        RETURNING ` + userColumns

	return scanUser(r.pool.QueryRow(ctx, query, domain.UserStatusInactive, id, domain.UserStatusActive))
}
