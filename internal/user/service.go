package user

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"account-service/internal/logging"
)

// PhotoStore is the file-storage surface the profile operations need.
// storage.LocalStore implements it.
type PhotoStore interface {
	Save(src io.Reader, originalName string) (string, error)
	Remove(filename string) error
	URL(filename string) string
}

// Profile is the caller-facing projection of a user
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	PhotoURL *string   `json:"photoUrl"`
}

// Service implements the profile operations behind the protected endpoints
type Service struct {
	repo   Repository
	photos PhotoStore
	logger *logging.Logger
}

func NewService(repo Repository, photos PhotoStore, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		photos: photos,
		logger: logger,
	}
}

// Profile returns the user's profile. ErrNotFound is possible even with a
// valid token when the row has gone away underneath it.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toProfile(u), nil
}

// UpdatePhoto stores the uploaded file, best-effort deletes the previous one
// and persists the new reference. A crash between the row update and the old
// file's deletion leaves an orphaned file behind; that is accepted, the two
// are not transactional.
func (s *Service) UpdatePhoto(ctx context.Context, id uuid.UUID, src io.Reader, originalName string) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	filename, err := s.photos.Save(src, originalName)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	if u.Photo != nil {
		if err := s.photos.Remove(*u.Photo); err != nil {
			s.logger.Warn("failed to remove previous photo", "user_id", id, "photo", *u.Photo, "error", err.Error())
		}
	}

	if err := s.repo.UpdatePhoto(ctx, id, filename); err != nil {
		return nil, err
	}

	u.Photo = &filename
	return s.toProfile(u), nil
}

// UpdateName replaces the user's display name
func (s *Service) UpdateName(ctx context.Context, id uuid.UUID, name string) (*Profile, error) {
	if err := s.repo.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toProfile(u), nil
}

// DeletePhoto clears the photo reference and best-effort removes the file
func (s *Service) DeletePhoto(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ClearPhoto(ctx, id); err != nil {
		return nil, err
	}

	if u.Photo != nil {
		if err := s.photos.Remove(*u.Photo); err != nil {
			s.logger.Warn("failed to remove photo file", "user_id", id, "photo", *u.Photo, "error", err.Error())
		}
	}

	u.Photo = nil
	return s.toProfile(u), nil
}

func (s *Service) toProfile(u *User) *Profile {
	p := &Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
	if u.Photo != nil {
		url := s.photos.URL(*u.Photo)
		p.PhotoURL = &url
	}
	return p
}
