package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainUser "campus-lost-found/internal/domain/user"
	appErrors "campus-lost-found/pkg/errors"
	"campus-lost-found/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	UserIDKey      = "userID"
	CurrentUserKey = "currentUser"
)

// TokenValidator resolves an access token to its user
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*domainUser.User, error)
}

// AuthMiddleware accepts the access token from the accessToken cookie or an
// Authorization: Bearer header, in that order.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.ErrUnauthorized.Message)
			c.Abort()
			return
		}

		user, err := validator.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			message := appErrors.ErrInvalidToken.Message
			var appErr *appErrors.AppError
			if errors.As(err, &appErr) && appErr.Code == appErrors.CodeUnauthorized {
				message = appErr.Message
			}
			utils.ErrorResponse(c, http.StatusUnauthorized, message)
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(CurrentUserKey, user)

		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserID returns the authenticated user's id set by AuthMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetCurrentUser(c *gin.Context) (*domainUser.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*domainUser.User)
	return u, ok
}
