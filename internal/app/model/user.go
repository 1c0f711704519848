package model

import (
	"time"

	"github.com/ikkim/udonggeum-backend/pkg/util"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
	RoleVendor     UserRole = "vendor"
)

type UserStatus string

const (
	UserActive              UserStatus = "active"
	UserInactive            UserStatus = "inactive"
	UserSuspended           UserStatus = "suspended"
	UserPendingVerification UserStatus = "pending_verification"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	FirstName       string         `gorm:"size:100;not null" json:"first_name"`
	LastName        string         `gorm:"size:100;not null" json:"last_name"`
	Email           string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	Phone           *string        `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	Avatar          string         `gorm:"type:text" json:"avatar,omitempty"`
	BirthDate       *time.Time     `json:"birth_date,omitempty"`
	Gender          *Gender        `gorm:"type:varchar(10)" json:"gender,omitempty"`
	Status          UserStatus     `gorm:"type:varchar(30);default:'pending_verification'" json:"status"`
	EmailVerified   bool           `gorm:"default:false" json:"email_verified"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at,omitempty"`
	PhoneVerified   bool           `gorm:"default:false" json:"phone_verified"`
	PhoneVerifiedAt *time.Time     `json:"phone_verified_at,omitempty"`
	LastLoginAt     *time.Time     `json:"last_login_at,omitempty"`
	LastLoginIP     string         `gorm:"size:45" json:"last_login_ip,omitempty"`
	RoleID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"role_id"`
	Role            *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Metadata        JSONMap        `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeSave hashes the credential unless the stored value already looks
// like a bcrypt hash, so repeated saves never double-hash.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password != "" && !util.IsHashed(u.Password) {
		hashed, err := util.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ValidatePassword checks a plain text password against the stored hash
func (u *User) ValidatePassword(password string) bool {
	return util.VerifyPassword(u.Password, password)
}
