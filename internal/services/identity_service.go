package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/models"
	"gorm.io/gorm"
)

// IdentityService is the identity directory: it resolves user ids to
// profile data and disabled/deleted status. Every read path filters its
// results through ActiveSet so references to removed or disabled
// accounts are dropped uniformly, in one place.
type IdentityService struct {
	db *gorm.DB
}

func NewIdentityService(db *gorm.DB) *IdentityService {
	return &IdentityService{db: db}
}

func (s *IdentityService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &user, nil
}

// notFoundOr maps a missing-row lookup error to the NotFound business
// error; anything else is a storage fault.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return apperr.Storage(err)
}

func (s *IdentityService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Storage(err)
	}
	return count > 0, nil
}

// ActiveSet resolves ids to their users, keeping only active accounts.
// Missing (deleted) and disabled ids are simply absent from the result;
// the caller's stored sets are never mutated.
func (s *IdentityService) ActiveSet(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("id IN ? AND is_disabled = false", unique).
		Find(&users).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
