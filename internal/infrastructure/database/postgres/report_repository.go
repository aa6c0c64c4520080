package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	now := time.Now()
	rep.ID = uuid.New()
	rep.CreatedAt = now
	rep.UpdatedAt = now
	if rep.Status == "" {
		rep.Status = report.StatusLost
	}

	dbModel := toReportModel(rep)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	rep.ID = dbModel.ID
	return nil
}

func (r *ReportRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*report.Report, error) {
	var dbModels []models.ReportModel
	err := r.db.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*report.Report, len(dbModels))
	for i := range dbModels {
		reports[i] = toReportEntity(&dbModels[i])
	}

	return reports, nil
}

func (r *ReportRepository) ListAllWithOwner(ctx context.Context) ([]*report.ReportWithOwner, error) {
	var dbModels []models.ReportModel
	err := r.db.DB.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*report.ReportWithOwner, len(dbModels))
	for i := range dbModels {
		reports[i] = &report.ReportWithOwner{
			Report: *toReportEntity(&dbModels[i]),
			Owner:  toOwner(dbModels[i].Owner),
		}
	}

	return reports, nil
}

func (r *ReportRepository) GetOwned(ctx context.Context, reportID, ownerID uuid.UUID) (*report.Report, error) {
	var dbModel models.ReportModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", reportID, ownerID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return toReportEntity(&dbModel), nil
}

// UpdateOwned applies patch in a single UPDATE ... RETURNING statement.
func (r *ReportRepository) UpdateOwned(ctx context.Context, reportID, ownerID uuid.UUID, patch report.Patch) (*report.Report, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}

	var dbModel models.ReportModel
	result := r.db.DB.WithContext(ctx).
		Model(&dbModel).
		Clauses(clause.Returning{}).
		Where("id = ? AND owner_id = ?", reportID, ownerID).
		Updates(updates)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, report.ErrReportNotFound
	}

	return toReportEntity(&dbModel), nil
}

func (r *ReportRepository) DeleteOwned(ctx context.Context, reportID, ownerID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", reportID, ownerID).
		Delete(&models.ReportModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return report.ErrReportNotFound
	}

	return nil
}

func toReportModel(rep *report.Report) *models.ReportModel {
	return &models.ReportModel{
		ID:        rep.ID,
		Title:     rep.Title,
		Content:   rep.Content,
		Status:    string(rep.Status),
		Location:  rep.Location,
		ImageURL:  rep.ImageURL,
		ImageKey:  rep.ImageKey,
		Number:    rep.Number,
		OwnerID:   rep.OwnerID,
		CreatedAt: rep.CreatedAt,
		UpdatedAt: rep.UpdatedAt,
	}
}

func toReportEntity(m *models.ReportModel) *report.Report {
	return &report.Report{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Status:    report.Status(m.Status),
		Location:  m.Location,
		ImageURL:  m.ImageURL,
		ImageKey:  m.ImageKey,
		Number:    m.Number,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toOwner(m *models.UserModel) *report.Owner {
	if m == nil {
		return nil
	}
	return &report.Owner{
		ID:     m.ID,
		Name:   m.Name,
		Email:  m.Email,
		Number: m.Number,
	}
}
