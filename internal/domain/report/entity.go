package report

import (
	"time"

	"github.com/google/uuid"
)

// Status is the state of a lost/found item
type Status string

const (
	StatusLost     Status = "Lost"
	StatusFound    Status = "Found"
	StatusReturned Status = "Returned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusLost, StatusFound, StatusReturned:
		return true
	}
	return false
}

// Report is a lost or found item posted by a user
type Report struct {
	ID       uuid.UUID
	Title    string
	Content  string
	Status   Status
	Location string

	// Image lives in the media store; Key is what deletion needs.
	ImageURL *string
	ImageKey *string

	// Number is the owner's phone number at creation time
	Number  string
	OwnerID uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner is the public subset of the owning user shown next to a report
type Owner struct {
	ID     uuid.UUID
	Name   string
	Email  string
	Number string
}

type ReportWithOwner struct {
	Report
	Owner *Owner
}

// Patch carries the fields an owner may change; nil means unchanged.
type Patch struct {
	Content *string
	Status  *Status
}

func (p Patch) Empty() bool {
	return p.Content == nil && p.Status == nil
}
