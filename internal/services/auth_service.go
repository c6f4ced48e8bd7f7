package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bjl5029/WSD-3/internal/auth"
	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"
	"github.com/bjl5029/WSD-3/internal/transport/dto"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token."
	msgCouldNotValidate   = "Could not validate credentials"
	msgInactiveUser       = "User is not active."
	msgRefreshInactive    = "User not active or does not exist"
)

// RefreshTokenStore makes refresh tokens single use. *auth.RefreshStore satisfies it.
type RefreshTokenStore interface {
	Record(ctx context.Context, jti string, ttl time.Duration) error
	Consume(ctx context.Context, jti string) error
}

type authService struct {
	users   storage.UserRepository
	tokens  *auth.TokenManager
	refresh RefreshTokenStore
	now     func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users storage.UserRepository, tokens *auth.TokenManager, refresh RefreshTokenStore) AuthService {
	return &authService{
		users:   users,
		tokens:  tokens,
		refresh: refresh,
		now:     time.Now,
	}
}

func parseBirthDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(*s))
	if err != nil {
		return nil, newError(ErrValidation, "birth_date must be YYYY-MM-DD")
	}
	return &d, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*TokenPair, error) {
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("AuthService: Error hashing password: %v", err)
		return nil, fmt.Errorf("internal error hashing password: %w", err)
	}

	user, err := s.users.Create(ctx, storage.CreateUserParams{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		BirthDate:    birthDate,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, newError(ErrConflict, "Email already registered")
		}
		return nil, MapRepoError(err, "creating user")
	}

	log.Printf("AuthService: registered user %d", user.ID)
	return s.issuePair(ctx, user.ID)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("Login attempt failed for email %s: user not found", req.Username)
			return nil, newError(ErrInvalidCredentials, msgInvalidCredentials)
		}
		return nil, MapRepoError(err, "fetching user for login")
	}
	if !user.IsActive() {
		log.Printf("Login attempt failed for user %d: status %s", user.ID, user.Status)
		return nil, newError(ErrInvalidCredentials, msgInvalidCredentials)
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		log.Printf("Login attempt failed for user %d: invalid password", user.ID)
		return nil, newError(ErrInvalidCredentials, msgInvalidCredentials)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, MapRepoError(err, "updating last login")
	}
	return s.issuePair(ctx, user.ID)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, newError(ErrUnauthorized, msgInvalidToken)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, newError(ErrUnauthorized, msgInvalidToken)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(ErrForbidden, msgRefreshInactive)
		}
		return nil, MapRepoError(err, "fetching user for refresh")
	}
	if !user.IsActive() {
		return nil, newError(ErrForbidden, msgRefreshInactive)
	}

	if err := s.refresh.Consume(ctx, claims.ID); err != nil {
		if errors.Is(err, auth.ErrTokenReused) {
			log.Printf("AuthService: refused replayed refresh token %s for user %d", claims.ID, userID)
			return nil, newError(ErrUnauthorized, msgInvalidToken)
		}
		log.Printf("AuthService: Error consuming refresh token: %v", err)
		return nil, fmt.Errorf("internal error consuming refresh token: %w", err)
	}
	return s.issuePair(ctx, userID)
}

func (s *authService) issuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		log.Printf("AuthService: Error issuing access token for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, claims, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		log.Printf("AuthService: Error issuing refresh token for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.refresh.Record(ctx, claims.ID, claims.TTL(s.now())); err != nil {
		log.Printf("AuthService: Error recording refresh token for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to record refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, newError(ErrUnauthorized, msgCouldNotValidate)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, newError(ErrUnauthorized, msgCouldNotValidate)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError(ErrUnauthorized, msgCouldNotValidate)
		}
		return nil, MapRepoError(err, "fetching authenticated user")
	}
	if !user.IsActive() {
		return nil, newError(ErrForbidden, msgInactiveUser)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) error {
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return err
	}
	err = s.users.UpdateProfile(ctx, userID, storage.ProfileParams{
		Name:      req.Name,
		Phone:     req.Phone,
		BirthDate: birthDate,
	})
	return MapRepoError(err, fmt.Sprintf("updating profile of user %d", userID))
}

func (s *authService) Deactivate(ctx context.Context, userID int64) error {
	if err := s.users.SetStatus(ctx, userID, models.UserStatusInactive); err != nil {
		return MapRepoError(err, fmt.Sprintf("deactivating user %d", userID))
	}
	log.Printf("AuthService: user %d deactivated", userID)
	return nil
}

// RoleAuthorizer grants posting management to admins.
type RoleAuthorizer struct{}

func (RoleAuthorizer) CanManagePostings(user *models.User) bool {
	return user != nil && user.Role == models.UserRoleAdmin
}

var _ Authorizer = RoleAuthorizer{}
