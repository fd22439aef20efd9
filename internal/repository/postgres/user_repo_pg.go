package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/affistack/affistack-api/internal/domain"
	"github.com/affistack/affistack-api/internal/repository/ports"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, email, fullName string, passwordHash, passwordSalt []byte, plan domain.Plan) (*domain.User, error) {
	const query = `
        INSERT INTO users (email, full_name, password_hash, password_salt, plan)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, email, full_name, password_hash, password_salt, plan, is_active, created_at, updated_at
    `
	row := r.db.QueryRowxContext(ctx, query, email, fullName, passwordHash, passwordSalt, plan)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, full_name, password_hash, password_salt, plan, is_active, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT id, email, full_name, password_hash, password_salt, plan, is_active, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE users
        SET is_active = false, updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
