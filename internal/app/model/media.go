package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaType string

const (
	MediaCategory MediaType = "category"
	MediaProduct  MediaType = "product"
	MediaAvatar   MediaType = "avatar"
	MediaGeneral  MediaType = "general"
)

// Media records metadata for a stored blob. The binary itself lives in the
// external blob store; only the path and public URL are kept here.
type Media struct {
	ID           uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	OriginalName string         `gorm:"size:255;not null" json:"original_name"`
	StoredName   string         `gorm:"size:255;not null" json:"stored_name"`
	MimeType     string         `gorm:"size:100;not null" json:"mime_type"`
	Size         int64          `gorm:"not null" json:"size"`
	Type         MediaType      `gorm:"type:varchar(20);default:'general'" json:"type"`
	Path         string         `gorm:"type:text;not null" json:"path"`
	URL          string         `gorm:"type:text;not null" json:"url"`
	Alt          string         `gorm:"size:255" json:"alt,omitempty"`
	Title        string         `gorm:"size:255" json:"title,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Media) TableName() string {
	return "media"
}

func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
