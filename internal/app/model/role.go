package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role owns a set of permissions through the role_permissions join table.
// A role flagged IsSystem is platform-protected: it cannot be renamed,
// deactivated, deleted, or have its permission set changed.
type Role struct {
	ID          uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	Name        string         `gorm:"size:50;uniqueIndex;not null" json:"name"`
	DisplayName string         `gorm:"size:100" json:"display_name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsSystem    bool           `gorm:"default:false" json:"is_system"`
	Permissions []Permission   `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasPermission reports whether the role's permission set contains an
// active permission with the exact name. Matching is case-sensitive;
// there is no wildcard or module-prefix matching.
func (r *Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p.IsActive && p.Name == name {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one of the names matches
func (r *Role) HasAnyPermission(names []string) bool {
	for _, name := range names {
		if r.HasPermission(name) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every name matches
func (r *Role) HasAllPermissions(names []string) bool {
	for _, name := range names {
		if !r.HasPermission(name) {
			return false
		}
	}
	return true
}

// PermissionNames returns the names of the role's active permissions
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if p.IsActive {
			names = append(names, p.Name)
		}
	}
	return names
}
