package report

import (
	"time"

	domainReport "campus-lost-found/internal/domain/report"

	"github.com/google/uuid"
)

// CreateReportRequest binds from JSON or from multipart form fields
type CreateReportRequest struct {
	Title    string `json:"title" form:"title" validate:"required,max=200"`
	Content  string `json:"content" form:"content" validate:"required,max=5000"`
	Location string `json:"location" form:"location" validate:"required,max=255"`
	Status   string `json:"status" form:"status" validate:"required,report_status"`
}

// UpdateReportRequest overwrites only the fields that are present
type UpdateReportRequest struct {
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

type OwnerResponse struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Number string    `json:"number"`
}

type ReportResponse struct {
	ID        uuid.UUID      `json:"_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Status    string         `json:"status"`
	Location  string         `json:"location"`
	Image     *string        `json:"image"`
	Number    string         `json:"number"`
	OwnerID   uuid.UUID      `json:"ownerId"`
	Owner     *OwnerResponse `json:"owner,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func ToReportResponse(r *domainReport.Report) *ReportResponse {
	if r == nil {
		return nil
	}
	return &ReportResponse{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Status:    string(r.Status),
		Location:  r.Location,
		Image:     r.ImageURL,
		Number:    r.Number,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToReportWithOwnerResponse(r *domainReport.ReportWithOwner) *ReportResponse {
	resp := ToReportResponse(&r.Report)
	if r.Owner != nil {
		resp.Owner = &OwnerResponse{
			ID:     r.Owner.ID,
			Name:   r.Owner.Name,
			Email:  r.Owner.Email,
			Number: r.Owner.Number,
		}
	}
	return resp
}
