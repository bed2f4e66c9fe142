package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo         repository.UserRepository
	tokens           *utils.TokenIssuer
	adminInviteToken string
}

// NewAuthService creates a new AuthService. Signups presenting
// adminInviteToken get the admin role; an empty token disables that.
func NewAuthService(userRepo repository.UserRepository, tokens *utils.TokenIssuer, adminInviteToken string) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		tokens:           tokens,
		adminInviteToken: adminInviteToken,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

// Register creates a new user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:            name,
		Email:           email,
		PasswordHash:    string(hashedPassword),
		Role:            s.roleFor(input.AdminInviteToken),
		ProfileImageURL: strings.TrimSpace(input.ProfileImageURL),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user along
// with a signed access token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) roleFor(inviteToken string) models.UserRole {
	if s.adminInviteToken == "" || inviteToken == "" {
		return models.RoleMember
	}
	if subtle.ConstantTimeCompare([]byte(inviteToken), []byte(s.adminInviteToken)) == 1 {
		return models.RoleAdmin
	}
	return models.RoleMember
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
