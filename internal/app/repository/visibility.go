package repository

import "gorm.io/gorm"

// Visibility selects which rows a soft-delete aware query sees.
type Visibility int

const (
	// VisibilityDefault returns only rows that have not been soft deleted.
	VisibilityDefault Visibility = iota
	// VisibilityAll returns both live and soft deleted rows.
	VisibilityAll
	// VisibilityDeletedOnly returns only soft deleted rows.
	VisibilityDeletedOnly
)

func applyVisibility(query *gorm.DB, v Visibility) *gorm.DB {
	switch v {
	case VisibilityAll:
		return query.Unscoped()
	case VisibilityDeletedOnly:
		return query.Unscoped().Where("deleted_at IS NOT NULL")
	default:
		return query
	}
}
