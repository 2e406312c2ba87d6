package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"account-service/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository is the persistence surface for user rows. Every operation is a
// single point lookup or single-row mutation.
type Repository interface {
	Create(ctx context.Context, name, email, passwordHash string, photo *string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	ClearPhoto(ctx context.Context, id uuid.UUID) error
}

// BunRepository handles user data persistence against PostgreSQL
type BunRepository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// Create inserts a new user row. The unique constraint on email acts as a
// backstop behind the orchestrator's explicit duplicate check.
func (r *BunRepository) Create(ctx context.Context, name, email, passwordHash string, photo *string) (*User, error) {
	dbUser := &database.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Photo:        photo,
	}

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByEmail retrieves a user by email, including the password hash, which
// sign-in needs for verification.
func (r *BunRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", email).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// GetByID retrieves a user by ID. The password hash is excluded from the
// projection; callers of this lookup never need it.
func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Column("id", "name", "email", "photo", "created_at", "updated_at").
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// UpdatePhoto replaces the user's photo reference
func (r *BunRepository) UpdatePhoto(ctx context.Context, id uuid.UUID, photo string) error {
	return r.updateColumn(ctx, id, "photo", photo)
}

// UpdateName replaces the user's display name
func (r *BunRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return r.updateColumn(ctx, id, "name", name)
}

// ClearPhoto removes the user's photo reference
func (r *BunRepository) ClearPhoto(ctx context.Context, id uuid.UUID) error {
	return r.updateColumn(ctx, id, "photo", nil)
}

func (r *BunRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	result, err := r.db.NewUpdate().
		Model((*database.User)(nil)).
		Set("? = ?", bun.Ident(column), value).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:           dbu.ID,
		Name:         dbu.Name,
		Email:        dbu.Email,
		PasswordHash: dbu.PasswordHash,
		Photo:        dbu.Photo,
		CreatedAt:    dbu.CreatedAt,
		UpdatedAt:    dbu.UpdatedAt,
	}
}
