package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nribeiro/voyago/internal/domain"
)

// UserRepo defines the persistence operations for user accounts.
type UserRepo interface {
	// UpsertByGoogleID inserts a user on first sign-in or refreshes the
	// profile fields on a repeat one. GoogleID is the conflict key.
	UpsertByGoogleID(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a user by primary key.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, google_id, email, name, picture, created_at, updated_at`

// UpsertByGoogleID inserts or refreshes the account keyed by google_id.
func (r *pgUserRepo) UpsertByGoogleID(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (google_id, email, name, picture)
		VALUES (@google_id, @email, @name, @picture)
		ON CONFLICT (google_id) DO UPDATE
		SET email      = excluded.email,
		    name       = excluded.name,
		    picture    = excluded.picture,
		    updated_at = now()
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"google_id": user.GoogleID,
		"email":     user.Email,
		"name":      user.Name,
		"picture":   user.Picture,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.UpsertByGoogleID: %w", err)
	}
	return result, nil
}

// GetByID retrieves a user by primary key.
func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u  domain.User
		id pgtype.UUID
	)

	err := s.Scan(&id, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	return u, nil
}
