package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthAccountNotActive   = "AUTH_ACCOUNT_NOT_ACTIVE"  // account suspended/inactive/pending
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed/forged token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token was logged out

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden            = "AUTHZ_FORBIDDEN"              // role not in endpoint allow-list
	AuthzPermissionDenied     = "AUTHZ_PERMISSION_DENIED"      // fine-grained permission check failed
	AuthzRoleNotFound         = "AUTHZ_ROLE_NOT_FOUND"         // no role information in context
	AuthzSystemRoleProtected  = "AUTHZ_SYSTEM_ROLE_PROTECTED"  // mutation of a system role

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceNotDeleted    = "RESOURCE_NOT_DELETED" // restore on a live record

	// ==================== Users (USER_) ====================
	UserNotFound       = "USER_NOT_FOUND"
	UserEmailExists    = "USER_EMAIL_EXISTS"
	UserPhoneExists    = "USER_PHONE_EXISTS"
	UserInvalidRole    = "USER_INVALID_ROLE"
	UserWrongPassword  = "USER_WRONG_PASSWORD"

	// ==================== Roles/Permissions (ROLE_/PERMISSION_) ====================
	RoleNotFound           = "ROLE_NOT_FOUND"
	RoleNameExists         = "ROLE_NAME_EXISTS"
	RoleInvalidPermissions = "ROLE_INVALID_PERMISSIONS"
	PermissionNotFound     = "PERMISSION_NOT_FOUND"
	PermissionNameExists   = "PERMISSION_NAME_EXISTS"

	// ==================== Categories (CATEGORY_) ====================
	CategoryNotFound       = "CATEGORY_NOT_FOUND"
	CategorySlugExists     = "CATEGORY_SLUG_EXISTS"
	CategoryParentNotFound = "CATEGORY_PARENT_NOT_FOUND"
	CategorySelfParent     = "CATEGORY_SELF_PARENT"
	CategoryCircularParent = "CATEGORY_CIRCULAR_PARENT"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound   = "PRODUCT_NOT_FOUND"
	ProductSlugExists = "PRODUCT_SLUG_EXISTS"
	ProductSKUExists  = "PRODUCT_SKU_EXISTS"
	VariantNotFound   = "VARIANT_NOT_FOUND"
	VariantSKUExists  = "VARIANT_SKU_EXISTS"

	// ==================== Tags (TAG_) ====================
	TagNotFound    = "TAG_NOT_FOUND"
	TagNameExists  = "TAG_NAME_EXISTS"
	TagSlugExists  = "TAG_SLUG_EXISTS"
	TagInvalidTags = "TAG_INVALID_TAGS" // unknown or inactive tag ids on assign

	// ==================== Media/Upload (MEDIA_/UPLOAD_) ====================
	MediaNotFound         = "MEDIA_NOT_FOUND"
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	ServiceUnavailable    = "SERVICE_UNAVAILABLE"
)
