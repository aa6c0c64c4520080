package handler

import (
	"context"
	"net/http"
	"time"

	"campus-lost-found/internal/middleware"
	"campus-lost-found/internal/usecase/user"
	"campus-lost-found/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is implemented by user.Service
type UserService interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.UserResponse, error)
	Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	RefreshTokens(ctx context.Context, refreshToken string) (*user.TokensResult, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*user.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *user.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *user.UpdateProfileRequest) (*user.UserResponse, error)
}

// CookieOptions control the session cookies
type CookieOptions struct {
	Secure        bool
	Domain        string
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

type UserHandler struct {
	service UserService
	cookies CookieOptions
}

func NewUserHandler(service UserService, cookies CookieOptions) *UserHandler {
	return &UserHandler{service: service, cookies: cookies}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.RefreshToken)
	}
}

func (h *UserHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("/logout", h.Logout)
		users.GET("/current-user", h.CurrentUser)
		users.POST("/change-password", h.ChangePassword)
		users.POST("/update-details", h.UpdateDetails)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User registered successfully", created)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSessionCookies(c, result.AccessToken, result.RefreshToken)
	utils.SuccessResponse(c, http.StatusOK, "User logged in successfully", result)
}

// RefreshToken reads the refresh token from its cookie, falling back to the body.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req user.RefreshRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
				return
			}
		}
		token = req.RefreshToken
	}

	result, err := h.service.RefreshTokens(c.Request.Context(), token)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSessionCookies(c, result.AccessToken, result.RefreshToken)
	utils.SuccessResponse(c, http.StatusOK, "Access token refreshed", result)
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.clearSessionCookies(c)
	utils.SuccessResponse(c, http.StatusOK, "User logged out", nil)
}

// CurrentUser answers from the user AuthMiddleware already loaded.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	if current, ok := middleware.GetCurrentUser(c); ok {
		utils.SuccessResponse(c, http.StatusOK, "Current user fetched successfully", user.ToUserResponse(current))
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.service.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Current user fetched successfully", profile)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) UpdateDetails(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Account details updated successfully", profile)
}

// setSessionCookies issues both tokens as HttpOnly cookies usable cross-site.
func (h *UserHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, int(h.cookies.AccessMaxAge.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, refreshToken, int(h.cookies.RefreshMaxAge.Seconds()), "/", h.cookies.Domain, h.cookies.Secure, true)
}

func (h *UserHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", h.cookies.Domain, h.cookies.Secure, true)
}
