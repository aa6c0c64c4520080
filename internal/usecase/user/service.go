package user

import (
	"context"
	"errors"
	"strings"

	domainUser "campus-lost-found/internal/domain/user"
	"campus-lost-found/internal/logger"
	"campus-lost-found/internal/usecase/auth"
	appErrors "campus-lost-found/pkg/errors"
	"campus-lost-found/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenService is the part of auth.Service the account flows need
type TokenService interface {
	IssueTokens(ctx context.Context, userID uuid.UUID) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

// Service implements user use cases
type Service struct {
	userRepo domainUser.Repository
	tokens   TokenService
}

// NewService creates a new user service
func NewService(userRepo domainUser.Repository, tokens TokenService) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = utils.SanitizeUsername(req.Username)
	req.Name = utils.SanitizeString(req.Name)
	req.Number = utils.SanitizePhone(req.Number)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.InvalidInput(utils.ValidationMessage(err), err)
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, appErrors.Internal("failed to register user", err)
	}
	if exists {
		logger.Warn("Registration attempt with existing email or username",
			zap.String("email", req.Email),
			zap.String("username", req.Username),
			zap.String("event", "registration_failed_duplicate"),
		)
		return nil, appErrors.ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.Internal("failed to register user", err)
	}

	user := &domainUser.User{
		Email:          req.Email,
		Username:       req.Username,
		PasswordHashed: hashedPassword,
		Name:           req.Name,
		Number:         req.Number,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			return nil, appErrors.ErrUserAlreadyExists
		}
		return nil, appErrors.Internal("failed to register user", err)
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.InvalidInput(utils.ValidationMessage(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.Internal("failed to log in", err)
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("event", "login_success"),
	)

	return &LoginResult{
		User:         ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Unix(),
	}, nil
}

func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return err
	}

	logger.Info("User logged out",
		zap.String("user_id", userID.String()),
		zap.String("event", "logout"),
	)
	return nil
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*TokensResult, error) {
	pair, err := s.tokens.Refresh(ctx, strings.TrimSpace(refreshToken))
	if err != nil {
		return nil, err
	}

	return &TokensResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.Unix(),
	}, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.InvalidInput(utils.ValidationMessage(err), err)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.OldPassword) {
		logger.Warn("Password change attempt with invalid old password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "password_change_failed_invalid_old_password"),
		)
		return appErrors.ErrOldPasswordInvalid
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return appErrors.Internal("failed to change password", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.Internal("failed to change password", err)
	}

	logger.Info("Password changed successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_change_success"),
	)

	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	req.Name = utils.SanitizeString(req.Name)
	req.Number = utils.SanitizePhone(req.Number)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.InvalidInput(utils.ValidationMessage(err), err)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	if req.Number != "" {
		user.Number = req.Number
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		switch {
		case errors.Is(err, domainUser.ErrUserAlreadyExists):
			return nil, appErrors.Conflict("email is already in use")
		case errors.Is(err, domainUser.ErrUserNotFound):
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.Internal("failed to update account details", err)
	}

	return ToUserResponse(user), nil
}

func (s *Service) getUser(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.Internal("failed to load user", err)
	}
	return user, nil
}
