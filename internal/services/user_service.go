package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/dto"
	"github.com/jellup/jellup-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService covers profile reads and edits plus the admin account
// moderation switches.
type UserService struct {
	db       *gorm.DB
	identity *IdentityService
}

func NewUserService(db *gorm.DB, identity *IdentityService) *UserService {
	return &UserService{db: db, identity: identity}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.identity.FindByID(ctx, id)
}

// List returns every regular active account except the caller's own.
func (s *UserService) List(ctx context.Context, callerID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("role <> ? AND id <> ? AND is_disabled = false", models.RoleAdmin, callerID).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return users, nil
}

// Update applies self-service profile edits.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.identity.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*req.Username))
		var existing models.User
		if err := s.db.WithContext(ctx).Where("username = ? AND id <> ?", username, id).First(&existing).Error; err == nil {
			return nil, apperr.InvalidState("username %s is already taken", username)
		}
		user.Username = username
	}
	if req.ProfilePicURL != nil {
		user.ProfilePicURL = strings.TrimSpace(*req.ProfilePicURL)
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, apperr.InvalidRequest("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		user.Password = string(hash)
	}

	if user.Name == "" || user.Username == "" {
		return nil, apperr.InvalidRequest("name and username cannot be empty")
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return user, nil
}

// Delete soft-deletes an account. References to it in relationship and
// post records stay put and are filtered lazily at read time.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.identity.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return user, nil
}

// SetDisabled flips the account moderation flag.
func (s *UserService) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*models.User, error) {
	user, err := s.identity.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsDisabled = disabled
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return user, nil
}

// UsernameAvailable reports whether the username is free to register.
func (s *UserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return false, apperr.InvalidRequest("username is required")
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, apperr.Storage(err)
	}
	return count == 0, nil
}
