package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"campus-lost-found/internal/usecase/report"
	"campus-lost-found/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultMaxImageBytes = 5 << 20

// ReportService is implemented by report.Service
type ReportService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *report.CreateReportRequest, image []byte) (*report.ReportResponse, error)
	ListByOwner(ctx context.Context, rawOwnerID string) ([]*report.ReportResponse, error)
	ListAll(ctx context.Context) ([]*report.ReportResponse, error)
	Update(ctx context.Context, rawReportID string, callerID uuid.UUID, req *report.UpdateReportRequest) (*report.ReportResponse, error)
	Delete(ctx context.Context, rawReportID string, callerID uuid.UUID) error
}

type ReportHandler struct {
	service       ReportService
	maxImageBytes int64
}

func NewReportHandler(service ReportService, maxImageBytes int64) *ReportHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	return &ReportHandler{service: service, maxImageBytes: maxImageBytes}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/report")
	{
		reports.POST("", h.Create)
		reports.GET("", h.ListAll)
		reports.GET("/user/:userId", h.ListByOwner)
		reports.PUT("/:reportId", h.Update)
		reports.DELETE("/:reportId", h.Delete)
	}
}

// Create accepts a JSON body or a multipart form with an optional "file" image.
func (h *ReportHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req report.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, &req, image)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Report created successfully", created)
}

// readImage returns nil when the request carries no file.
func (h *ReportHandler) readImage(c *gin.Context) ([]byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid file upload")
	}
	if fh.Size > h.maxImageBytes {
		return nil, fmt.Errorf("image must be at most %d bytes", h.maxImageBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("invalid file upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("invalid file upload")
	}
	if int64(len(data)) > h.maxImageBytes {
		return nil, fmt.Errorf("image must be at most %d bytes", h.maxImageBytes)
	}

	return data, nil
}

func (h *ReportHandler) ListAll(c *gin.Context) {
	reports, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reports fetched successfully", reports)
}

func (h *ReportHandler) ListByOwner(c *gin.Context) {
	reports, err := h.service.ListByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User reports fetched successfully", reports)
}

func (h *ReportHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req report.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("reportId"), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Report updated successfully", updated)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("reportId"), userID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Report deleted successfully", nil)
}
