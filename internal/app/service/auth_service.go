package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAdminNotConfigured = errors.New("admin login is not configured")
)

// AdminUserID is the subject of tokens issued to the configured back-office
// credential.
const AdminUserID = "admin"

// TokenRevoker blacklists signed-out access tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AdminCredential is the configured back-office login. PasswordHash is a
// bcrypt hash.
type AdminCredential struct {
	Email        string
	PasswordHash string
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error)
	SignIn(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error)
	SignOut(ctx context.Context, accessToken string) error
	Me(ctx context.Context, userID string) (session.State, error)
	AdminLogin(ctx context.Context, email, password string) (*util.TokenPair, error)
}

type authService struct {
	userRepo      repository.UserRepository
	sessions      *session.Registry
	revoker       TokenRevoker
	admin         AdminCredential
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessions *session.Registry,
	revoker TokenRevoker,
	admin AdminCredential,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		sessions:      sessions,
		revoker:       revoker,
		admin:         admin,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) issue(userID, email string, role model.UserRole) (*util.TokenPair, error) {
	return util.GenerateTokenPair(userID, email, string(role), s.jwtSecret, s.accessExpiry, s.refreshExpiry)
}

func (s *authService) Register(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	if err := util.ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issue(user.ID, user.Email, user.Role)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	s.sessions.SignedIn(user)
	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issue(user.ID, user.Email, user.Role)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	s.sessions.SignedIn(user)
	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

// SignOut revokes the access token for the rest of its lifetime and
// publishes the unauthenticated projection.
func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	claims, err := util.ValidateToken(accessToken, s.jwtSecret)
	if err != nil {
		return err
	}

	if err := s.revoker.Revoke(ctx, accessToken, claims.RemainingLifetime()); err != nil {
		logger.Error("Failed to revoke token on sign-out", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	s.sessions.SignedOut(claims.UserID)
	logger.Info("User signed out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (session.State, error) {
	state, err := s.sessions.Resolve(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return state, ErrUserNotFound
	}
	return state, err
}

// AdminLogin accepts the configured credential or any user with the admin
// role, and issues tokens carrying role admin.
func (s *authService) AdminLogin(ctx context.Context, email, password string) (*util.TokenPair, error) {
	email = normalizeEmail(email)

	if s.admin.Email != "" && email == normalizeEmail(s.admin.Email) {
		if s.admin.PasswordHash == "" {
			return nil, ErrAdminNotConfigured
		}
		if !util.VerifyPassword(s.admin.PasswordHash, password) {
			logger.Warn("Admin login failed: invalid password")
			return nil, ErrInvalidCredentials
		}
		logger.Info("Admin logged in", map[string]interface{}{
			"email": email,
		})
		return s.issue(AdminUserID, email, model.RoleAdmin)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleAdmin || !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Admin login failed", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return s.issue(user.ID, user.Email, user.Role)
}
