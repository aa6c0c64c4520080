package report

import (
	"context"
	"errors"
	"strings"

	domainReport "campus-lost-found/internal/domain/report"
	domainUser "campus-lost-found/internal/domain/user"
	"campus-lost-found/internal/logger"
	appErrors "campus-lost-found/pkg/errors"
	"campus-lost-found/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier receives every newly created report. Implementations must not block.
type Notifier interface {
	NotifyNewReport(report *domainReport.Report, reporter *domainUser.User)
}

// Service implements the report lifecycle
type Service struct {
	reportRepo domainReport.Repository
	userRepo   domainUser.Repository
	images     domainReport.ImageStore
	notifier   Notifier
}

// NewService creates a report service. images and notifier may be nil,
// in which case uploads and notifications are skipped.
func NewService(
	reportRepo domainReport.Repository,
	userRepo domainUser.Repository,
	images domainReport.ImageStore,
	notifier Notifier,
) *Service {
	return &Service{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		images:     images,
		notifier:   notifier,
	}
}

// Create stores a new report owned by ownerID. A failed image upload leaves
// the report without an image instead of failing the request.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateReportRequest, image []byte) (*ReportResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = utils.SanitizeText(req.Content)
	req.Location = strings.TrimSpace(req.Location)
	req.Status = strings.TrimSpace(req.Status)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.InvalidInput(utils.ValidationMessage(err), err)
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.Internal("failed to create report", err)
	}

	report := &domainReport.Report{
		Title:    req.Title,
		Content:  req.Content,
		Status:   domainReport.Status(req.Status),
		Location: req.Location,
		Number:   owner.Number,
		OwnerID:  owner.ID,
	}

	if len(image) > 0 {
		s.attachImage(ctx, report, image)
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, appErrors.Internal("failed to create report", err)
	}

	logger.Info("Report created",
		zap.String("report_id", report.ID.String()),
		zap.String("owner_id", owner.ID.String()),
		zap.String("status", string(report.Status)),
		zap.Bool("has_image", report.ImageURL != nil),
		zap.String("event", "report_created"),
	)

	if s.notifier != nil {
		s.notifier.NotifyNewReport(report, owner)
	}

	return ToReportResponse(report), nil
}

func (s *Service) attachImage(ctx context.Context, report *domainReport.Report, image []byte) {
	if s.images == nil {
		logger.Warn("Image supplied but no media store is configured",
			zap.String("event", "image_upload_skipped"),
		)
		return
	}

	stored, err := s.images.Upload(ctx, image)
	if err != nil {
		logger.Error("Image upload failed, creating report without image",
			zap.String("owner_id", report.OwnerID.String()),
			zap.Int("size", len(image)),
			zap.Error(err),
			zap.String("event", "image_upload_failed"),
		)
		return
	}

	report.ImageURL = &stored.URL
	report.ImageKey = &stored.Key
}

func (s *Service) ListByOwner(ctx context.Context, rawOwnerID string) ([]*ReportResponse, error) {
	ownerID, err := uuid.Parse(strings.TrimSpace(rawOwnerID))
	if err != nil {
		return nil, appErrors.ErrInvalidUserID
	}

	if _, err := s.userRepo.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.Internal("failed to fetch reports", err)
	}

	reports, err := s.reportRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Internal("failed to fetch reports", err)
	}

	responses := make([]*ReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, ToReportResponse(r))
	}

	return responses, nil
}

// ListAll returns every report, newest first. An empty store yields an empty list.
func (s *Service) ListAll(ctx context.Context) ([]*ReportResponse, error) {
	reports, err := s.reportRepo.ListAllWithOwner(ctx)
	if err != nil {
		return nil, appErrors.Internal("failed to fetch reports", err)
	}

	responses := make([]*ReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, ToReportWithOwnerResponse(r))
	}

	return responses, nil
}

func (s *Service) Update(ctx context.Context, rawReportID string, callerID uuid.UUID, req *UpdateReportRequest) (*ReportResponse, error) {
	reportID, err := uuid.Parse(strings.TrimSpace(rawReportID))
	if err != nil {
		return nil, appErrors.ErrInvalidReportID
	}

	var patch domainReport.Patch
	if req.Content != nil {
		content := utils.SanitizeText(*req.Content)
		if content == "" {
			return nil, appErrors.InvalidInput("content cannot be empty", nil)
		}
		patch.Content = &content
	}
	if req.Status != nil {
		status := domainReport.Status(strings.TrimSpace(*req.Status))
		if !status.Valid() {
			return nil, appErrors.InvalidInput(
				"status must be one of "+strings.Join(utils.ReportStatuses, ", "), domainReport.ErrInvalidStatus)
		}
		patch.Status = &status
	}
	if patch.Empty() {
		return nil, appErrors.InvalidInput("content or status is required", nil)
	}

	updated, err := s.reportRepo.UpdateOwned(ctx, reportID, callerID, patch)
	if err != nil {
		if errors.Is(err, domainReport.ErrReportNotFound) {
			return nil, appErrors.ErrReportNotFound
		}
		return nil, appErrors.Internal("failed to update report", err)
	}

	logger.Info("Report updated",
		zap.String("report_id", reportID.String()),
		zap.String("owner_id", callerID.String()),
		zap.String("event", "report_updated"),
	)

	return ToReportResponse(updated), nil
}

// Delete removes a report owned by callerID together with its image.
// Image removal is best-effort.
func (s *Service) Delete(ctx context.Context, rawReportID string, callerID uuid.UUID) error {
	reportID, err := uuid.Parse(strings.TrimSpace(rawReportID))
	if err != nil {
		return appErrors.ErrInvalidReportID
	}

	report, err := s.reportRepo.GetOwned(ctx, reportID, callerID)
	if err != nil {
		if errors.Is(err, domainReport.ErrReportNotFound) {
			return appErrors.ErrReportNotFound
		}
		return appErrors.Internal("failed to delete report", err)
	}

	if report.ImageKey != nil && s.images != nil {
		if err := s.images.Delete(ctx, *report.ImageKey); err != nil {
			logger.Warn("Failed to delete report image",
				zap.String("report_id", report.ID.String()),
				zap.String("image_key", *report.ImageKey),
				zap.Error(err),
				zap.String("event", "image_delete_failed"),
			)
		}
	}

	if err := s.reportRepo.DeleteOwned(ctx, reportID, callerID); err != nil {
		if errors.Is(err, domainReport.ErrReportNotFound) {
			return appErrors.ErrReportNotFound
		}
		return appErrors.Internal("failed to delete report", err)
	}

	logger.Info("Report deleted",
		zap.String("report_id", reportID.String()),
		zap.String("owner_id", callerID.String()),
		zap.String("event", "report_deleted"),
	)

	return nil
}
