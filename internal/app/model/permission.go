package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a single named capability in "module.action" form,
// e.g. "products.create". Permissions are shared across roles.
type Permission struct {
	ID          uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	Name        string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	DisplayName string         `gorm:"size:150" json:"display_name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Module      string         `gorm:"size:50;not null" json:"module"`
	Action      string         `gorm:"size:50;not null" json:"action"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	Roles       []Role         `gorm:"many2many:role_permissions;" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Permission) TableName() string {
	return "permissions"
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
