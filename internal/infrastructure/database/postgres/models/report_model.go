package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportModel represents the database model for Report
type ReportModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text;not null"`
	Status    string    `gorm:"type:varchar(16);not null;default:'Lost'"`
	Location  string    `gorm:"type:varchar(255);not null"`
	ImageURL  *string   `gorm:"type:text"`
	ImageKey  *string   `gorm:"type:text"`
	Number    string    `gorm:"type:varchar(10);not null"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Owner *UserModel `gorm:"foreignKey:OwnerID"`
}

func (ReportModel) TableName() string {
	return "reports"
}
