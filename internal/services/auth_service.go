package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jellup/jellup-backend/internal/apperr"
	"github.com/jellup/jellup-backend/internal/cache"
	"github.com/jellup/jellup-backend/internal/config"
	"github.com/jellup/jellup-backend/internal/dto"
	"github.com/jellup/jellup-backend/internal/models"
	"github.com/jellup/jellup-backend/internal/notify"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	codeKindVerify = "verify"
	codeKindReset  = "reset"
)

// AuthService handles signup, login and the e-mail verification and
// password-reset flows. One-time codes live in Redis with a TTL; the
// actual mail goes out through the notifier, fire-and-forget.
type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	codes    *cache.CodeStore
	notifier notify.Notifier
}

func NewAuthService(db *gorm.DB, cfg *config.Config, codes *cache.CodeStore, notifier notify.Notifier) *AuthService {
	return &AuthService{db: db, cfg: cfg, codes: codes, notifier: notifier}
}

type mailEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Code   string    `json:"code"`
	Link   string    `json:"link"`
}

// SignUp creates the account and its empty relationship record in one
// transaction, then dispatches the verification mail.
func (s *AuthService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*models.User, error) {
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, apperr.InvalidRequest("name, username, email and password are required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.InvalidRequest("password must be at least 8 characters")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apperr.InvalidState("email %s is already registered", email)
	}
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, apperr.InvalidState("username %s is already taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	user := &models.User{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Username:      username,
		Email:         email,
		Password:      string(hash),
		ProfilePicURL: models.DefaultProfilePicURL,
		Role:          models.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return apperr.Storage(err)
		}
		return CreateRecord(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	code, err := randomCode()
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if err := s.codes.Put(ctx, codeKindVerify, code, user.ID.String(), s.cfg.VerifyCodeTTL); err != nil {
		return nil, apperr.Storage(err)
	}

	s.notifier.Send(ctx, notify.KindVerificationEmail, mailEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Code:   code,
		Link:   s.cfg.BaseURL + "/email-verification",
	})
	return user, nil
}

// Login checks credentials and account state, then issues a JWT with
// sub and role claims.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	if req.Email == "" || req.Password == "" {
		return "", nil, apperr.InvalidRequest("email and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperr.Unauthorized("email or password incorrect")
	}
	if err != nil {
		return "", nil, apperr.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, apperr.Unauthorized("email or password incorrect")
	}
	if !user.IsVerified {
		return "", nil, apperr.Unauthorized("email address is not verified")
	}
	if user.IsDisabled {
		return "", nil, apperr.Forbidden("account is disabled, contact the admin")
	}

	token, err := s.signToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// VerifyEmail consumes a verification code and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, apperr.InvalidRequest("verification code is required")
	}

	subject, ok, err := s.codes.Take(ctx, codeKindVerify, code)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, apperr.NotFound("invalid or expired verification code")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "account no longer exists")
	}
	user.IsVerified = true
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return &user, nil
}

// RequestPasswordReset issues a reset code for the account and mails it.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return apperr.InvalidRequest("email is required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("no account with that email")
	}
	if err != nil {
		return apperr.Storage(err)
	}

	code, err := randomCode()
	if err != nil {
		return apperr.Storage(err)
	}
	if err := s.codes.Put(ctx, codeKindReset, code, user.ID.String(), s.cfg.ResetCodeTTL); err != nil {
		return apperr.Storage(err)
	}

	s.notifier.Send(ctx, notify.KindPasswordResetEmail, mailEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Code:   code,
		Link:   s.cfg.BaseURL + "/password-reset",
	})
	return nil
}

// ConfirmPasswordReset consumes a reset code and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if code == "" || newPassword == "" {
		return apperr.InvalidRequest("reset code and new password are required")
	}
	if len(newPassword) < 8 {
		return apperr.InvalidRequest("password must be at least 8 characters")
	}

	subject, ok, err := s.codes.Take(ctx, codeKindReset, code)
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return apperr.NotFound("invalid or expired reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Storage(err)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", subject).
		Update("password", string(hash))
	if result.Error != nil {
		return apperr.Storage(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("account no longer exists")
	}
	return nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", apperr.Storage(err)
	}
	return signed, nil
}

func randomCode() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
