package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is one purchasable configuration of a product. The SKU is
// unique across all variants, not just within the owning product.
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primarykey" json:"id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	SKU       string          `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(12,0);not null" json:"price"`
	Quantity  int             `gorm:"default:0" json:"quantity"`
	Attributes StringMap      `gorm:"type:jsonb" json:"attributes,omitempty"`
	Image     string          `gorm:"type:text" json:"image,omitempty"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
