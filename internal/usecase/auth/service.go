package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-lost-found/internal/config"
	domainUser "campus-lost-found/internal/domain/user"
	"campus-lost-found/internal/logger"
	appErrors "campus-lost-found/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessClaims are carried by the short-lived access token
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RefreshClaims are carried by the long-lived refresh token
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service issues, validates, rotates and revokes session tokens.
// Only the refresh token is persisted, on the user row.
type Service struct {
	userRepo domainUser.Repository
	cfg      config.JWTConfig
	now      func() time.Time
}

func NewService(userRepo domainUser.Repository, cfg config.JWTConfig) *Service {
	return &Service{
		userRepo: userRepo,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) IssueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load user for token issue",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, appErrors.Internal("something went wrong while generating tokens", err)
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.AccessExpiry)

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
	}).SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return nil, appErrors.Internal("something went wrong while generating tokens", err)
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshExpiry)),
			// jti keeps two refresh tokens minted in the same second distinct
			ID: uuid.NewString(),
		},
		UserID: u.ID.String(),
	}).SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, appErrors.Internal("something went wrong while generating tokens", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, u.ID, &refreshToken); err != nil {
		return nil, appErrors.Internal("something went wrong while generating tokens", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// ValidateAccessToken returns the user the token belongs to. Every failure,
// including a deleted user, is reported as ErrInvalidToken.
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (*domainUser.User, error) {
	if token == "" {
		return nil, appErrors.ErrUnauthorized
	}

	claims := &AccessClaims{}
	if err := s.parse(token, claims, s.cfg.AccessSecret); err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Error("Failed to load user for access token",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
		return nil, appErrors.ErrInvalidToken
	}

	return u, nil
}

// Refresh rotates the token pair. The presented token must be the one
// currently stored for the user, so a logged-out or replaced token fails.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, appErrors.ErrUnauthorized
	}

	claims := &RefreshClaims{}
	if err := s.parse(refreshToken, claims, s.cfg.RefreshSecret); err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	if !u.HasRefreshToken(refreshToken) {
		logger.Warn("Refresh token reuse or mismatch",
			zap.String("user_id", u.ID.String()),
			zap.String("event", "refresh_token_mismatch"),
		)
		return nil, appErrors.Unauthorized("refresh token is expired or used")
	}

	return s.IssueTokens(ctx, u.ID)
}

// Revoke clears the stored refresh token. Revoking twice is not an error.
func (s *Service) Revoke(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil
		}
		return appErrors.Internal("failed to revoke session", err)
	}
	return nil
}

func (s *Service) parse(token string, claims jwt.Claims, secret string) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return appErrors.ErrInvalidToken
	}
	return nil
}
