package service

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/msomdec/bis-arena/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const maxImageSize = 5 * 1024 * 1024 // 5MB

// allowed upload types, matched against both the sniffed content type and
// the original filename extension
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ImageUpload carries an uploaded profile picture.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProfileUpdate describes a partial profile change. Nil fields are left
// untouched. A password change requires both CurrentPassword and NewPassword.
type ProfileUpdate struct {
	Username        *string
	Email           *string
	Age             *int
	College         *string
	CurrentPassword string
	NewPassword     string
	Image           *ImageUpload
}

// ProfileService reads and updates user profiles, including the stored
// profile picture.
type ProfileService struct {
	users      domain.UserRepository
	files      domain.FileStore
	bcryptCost int
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users domain.UserRepository, files domain.FileStore, bcryptCost int) *ProfileService {
	return &ProfileService{users: users, files: files, bcryptCost: bcryptCost}
}

// Get returns the user with the given email.
func (s *ProfileService) Get(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, NormalizeEmail(email))
}

// Update applies the supplied fields to the user identified by email.
// A password change verifies the current password first; a new image
// replaces the stored one and the old bytes are deleted.
func (s *ProfileService) Update(ctx context.Context, email string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if upd.CurrentPassword != "" && upd.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(upd.CurrentPassword)); err != nil {
			return nil, domain.ErrUnauthorized
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = NormalizeEmail(*upd.Email)
	}
	if upd.Age != nil {
		user.Age = upd.Age
	}
	if upd.College != nil {
		user.College = upd.College
	}

	var oldPic *string
	if upd.Image != nil {
		key, err := s.storeImage(ctx, upd.Image)
		if err != nil {
			return nil, err
		}
		oldPic = user.ProfilePic
		user.ProfilePic = &key
	}

	if err := s.users.Update(ctx, user); err != nil {
		// The freshly stored image is orphaned; remove it.
		if upd.Image != nil && user.ProfilePic != nil {
			s.files.Delete(ctx, *user.ProfilePic)
		}
		return nil, err
	}

	// Replaced picture bytes are no longer referenced.
	if oldPic != nil {
		if err := s.files.Delete(ctx, *oldPic); err != nil {
			return nil, fmt.Errorf("delete old picture: %w", err)
		}
	}

	return user, nil
}

// Picture returns the stored profile picture bytes and content type for a
// storage key.
func (s *ProfileService) Picture(ctx context.Context, key string) ([]byte, string, error) {
	data, err := s.files.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	contentType := "image/png"
	if path.Ext(key) == ".jpg" {
		contentType = "image/jpeg"
	}
	return data, contentType, nil
}

func (s *ProfileService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	ext, ok := imageExtensions[img.ContentType]
	if !ok {
		return "", fmt.Errorf("%w: only JPEG and PNG images are accepted", domain.ErrInvalidInput)
	}
	switch path.Ext(img.Filename) {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", fmt.Errorf("%w: only .png, .jpg and .jpeg files are accepted", domain.ErrInvalidInput)
	}
	if len(img.Data) > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds 5MB limit", domain.ErrInvalidInput)
	}
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	key := "profiles/" + uuid.NewString() + ext
	if err := s.files.Save(ctx, key, img.Data); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return key, nil
}
