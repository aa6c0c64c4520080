package handler

import (
	"errors"
	"net/http"

	"campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/domain/user"
	"campus-lost-found/internal/logger"
	"campus-lost-found/internal/middleware"
	appErrors "campus-lost-found/pkg/errors"
	"campus-lost-found/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var statusByCode = map[string]int{
	appErrors.CodeInvalidInput: http.StatusBadRequest,
	appErrors.CodeUnauthorized: http.StatusUnauthorized,
	appErrors.CodeNotFound:     http.StatusNotFound,
	appErrors.CodeConflict:     http.StatusConflict,
	appErrors.CodeInternal:     http.StatusInternalServerError,
}

// respondWithError is the only place errors become HTTP responses.
// Internal details are logged, never sent.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	// domain sentinels that escaped the use-case layer unwrapped
	switch {
	case errors.Is(err, user.ErrUserAlreadyExists):
		err = appErrors.ErrUserAlreadyExists
	case errors.Is(err, user.ErrUserNotFound):
		err = appErrors.ErrUserNotFound
	case errors.Is(err, report.ErrReportNotFound):
		err = appErrors.ErrReportNotFound
	}

	var appErr *appErrors.AppError
	if !errors.As(err, &appErr) {
		appErr = appErrors.Internal("Internal server error", err)
	}

	status, ok := statusByCode[appErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		_ = c.Error(err)
	}

	utils.ErrorResponse(c, status, appErr.Message)
}

// requireUserID reads the id set by AuthMiddleware and answers 401 if it is missing.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondWithError(c, appErrors.ErrUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}
