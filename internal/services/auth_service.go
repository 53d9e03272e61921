package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/access"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/config"
	"github.com/ukuvago/themeboard/internal/logger"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var errEmailTaken = apperrors.Conflict("Email already registered")

type AuthService struct {
	config *config.Config
	users  repository.UserRepository
}

func NewAuthService(cfg *config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{config: cfg, users: users}
}

// JWT Claims
type Claims struct {
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into the identity the access gate sees.
func (c *Claims) Principal() access.Principal {
	return access.Principal{UserID: c.UserID, Email: c.Email, Role: access.Role(c.Role)}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HashPassword creates a bcrypt hash of the password
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with a hash
func (s *AuthService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a JWT token for a user
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(time.Duration(s.config.JWTExpiration) * time.Hour)

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.config.AppName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.createUser(ctx, input, models.RoleUser)
}

// RegisterAdmin creates an admin account. The caller must already be an
// admin or present the configured admin secret key.
func (s *AuthService) RegisterAdmin(ctx context.Context, input RegisterInput, caller access.Principal, adminKey string) (*models.User, error) {
	if caller.Role != access.RoleAdmin && !s.validAdminKey(adminKey) {
		return nil, apperrors.Authorization("Only admins or holders of the admin key can create admin accounts")
	}
	return s.createUser(ctx, input, models.RoleAdmin)
}

func (s *AuthService) validAdminKey(key string) bool {
	if s.config.AdminSecretKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.config.AdminSecretKey)) == 1
}

func (s *AuthService) createUser(ctx context.Context, input RegisterInput, role models.UserRole) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" {
		return nil, apperrors.Validation("Name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Validation("A valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	// Check if user already exists
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, errEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	passwordHash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.Unauthenticated("Invalid email or password")
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperrors.Unauthenticated("Invalid email or password")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// LoginAdmin is Login restricted to admin accounts.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.User, string, error) {
	user, token, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	if user.Role != models.RoleAdmin {
		return nil, "", apperrors.Authorization("Admin access required")
	}
	return user, token, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin from config when it does not exist.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return nil
	}

	_, err := s.users.FindByEmail(ctx, strings.ToLower(s.config.AdminEmail))
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin, err := s.createUser(ctx, RegisterInput{
		Name:     "Admin",
		Email:    s.config.AdminEmail,
		Password: s.config.AdminPassword,
	}, models.RoleAdmin)
	if err != nil {
		return err
	}

	logger.Info().Str("email", admin.Email).Msg("Created bootstrap admin account")
	return nil
}
