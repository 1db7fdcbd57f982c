package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
	"github.com/yeremiapane/tablemate/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type AuthService struct {
	DB        *gorm.DB
	Tokens    *utils.JWTManager
	Blacklist *utils.TokenBlacklist
}

func NewAuthService(db *gorm.DB, tokens *utils.JWTManager, blacklist *utils.TokenBlacklist) *AuthService {
	if blacklist == nil {
		blacklist = utils.NewTokenBlacklist()
	}
	return &AuthService{DB: db, Tokens: tokens, Blacklist: blacklist}
}

func (s *AuthService) Login(ctx context.Context, form models.LoginForm) (*AuthResult, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(form.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Register creates an ordinary user account and logs it in.
func (s *AuthService) Register(ctx context.Context, form models.RegisterForm) (*AuthResult, error) {
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	email := normalizeEmail(form.Email)
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrEmailInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     strings.TrimSpace(form.Name),
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
		Phone:    strings.TrimSpace(form.Phone),
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, duplicateEmail(err)
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	return s.issue(user)
}

// Authenticate resolves a bearer token to the current user. The role comes from the stored
// user, not from the token, so demotions apply immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" || s.Blacklist.Contains(token) {
		return nil, apperrors.ErrUnauthorized
	}
	claims, err := s.Tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	return &user, nil
}

// Logout revokes token until its natural expiry.
func (s *AuthService) Logout(token string) error {
	claims, err := s.Tokens.ParseToken(token)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	expiry := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	s.Blacklist.Add(token, expiry)
	return nil
}

func (s *AuthService) issue(user models.User) (*AuthResult, error) {
	token, err := s.Tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
