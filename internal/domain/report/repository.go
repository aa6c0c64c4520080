package report

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists reports. Owner-scoped methods match on id AND owner,
// so a report owned by someone else is reported as ErrReportNotFound.
type Repository interface {
	Create(ctx context.Context, report *Report) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Report, error)
	ListAllWithOwner(ctx context.Context) ([]*ReportWithOwner, error)

	GetOwned(ctx context.Context, reportID, ownerID uuid.UUID) (*Report, error)
	UpdateOwned(ctx context.Context, reportID, ownerID uuid.UUID, patch Patch) (*Report, error)
	DeleteOwned(ctx context.Context, reportID, ownerID uuid.UUID) error
}

// StoredImage identifies an uploaded image
type StoredImage struct {
	URL string
	Key string
}

// ImageStore is the external media host for report images
type ImageStore interface {
	Upload(ctx context.Context, data []byte) (*StoredImage, error)
	Delete(ctx context.Context, key string) error
}
