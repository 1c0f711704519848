package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed storage error
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates a raw storage error into a client-safe code and
// message. Callers never see driver error strings; a unique-constraint
// violation at write time maps to the same Conflict the pre-check would
// have produced.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: context + " not found",
		}
	}

	// PostgreSQL unique constraint violation (23505); SQLite reports
	// "UNIQUE constraint failed".
	if strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Referenced record does not exist",
		}
	}

	// Not-null violation (23502)
	if strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    ServiceUnavailable,
			Message: "Storage temporarily unreachable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalDatabaseError,
		Message: "An internal error occurred",
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: UserEmailExists, Message: "Email already exists"}
	case strings.Contains(errLower, "phone"):
		return ErrorInfo{Code: UserPhoneExists, Message: "Phone number already exists"}
	case strings.Contains(errLower, "product_variants") && strings.Contains(errLower, "sku"):
		return ErrorInfo{Code: VariantSKUExists, Message: "Variant with this SKU already exists"}
	case strings.Contains(errLower, "sku"):
		return ErrorInfo{Code: ProductSKUExists, Message: "Product with this SKU already exists"}
	case strings.Contains(errLower, "categories") && strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: CategorySlugExists, Message: "Category with this slug already exists"}
	case strings.Contains(errLower, "tags") && strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: TagSlugExists, Message: "Tag with this slug already exists"}
	case strings.Contains(errLower, "slug"):
		return ErrorInfo{Code: ProductSlugExists, Message: "Product with this slug already exists"}
	case strings.Contains(errLower, "roles") && strings.Contains(errLower, "name"):
		return ErrorInfo{Code: RoleNameExists, Message: "Role with this name already exists"}
	case strings.Contains(errLower, "permissions") && strings.Contains(errLower, "name"):
		return ErrorInfo{Code: PermissionNameExists, Message: "Permission with this name already exists"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
	}
}
