package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductDraft      ProductStatus = "draft"
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

// Product is the purchasable aggregate. Prices are integer-valued toman
// amounts. Quantity is only meaningful while HasVariants is false; once
// variants exist, stock derives from them. HasVariants is persisted but
// maintained at every variant add/remove, never trusted blindly.
type Product struct {
	ID                uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	Name              string           `gorm:"size:255;not null" json:"name"`
	Slug              string           `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description       string           `gorm:"type:text" json:"description,omitempty"`
	ShortDescription  string           `gorm:"type:text" json:"short_description,omitempty"`
	SKU               string           `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Price             decimal.Decimal  `gorm:"type:decimal(12,0);not null" json:"price"`
	CompareAtPrice    *decimal.Decimal `gorm:"type:decimal(12,0)" json:"compare_at_price,omitempty"`
	CostPrice         *decimal.Decimal `gorm:"type:decimal(12,0)" json:"cost_price,omitempty"`
	Quantity          int              `gorm:"default:0" json:"quantity"`
	LowStockThreshold int              `gorm:"default:5" json:"low_stock_threshold"`
	Weight            *float64         `gorm:"type:decimal(10,2)" json:"weight,omitempty"`
	Status            ProductStatus    `gorm:"type:varchar(20);default:'draft'" json:"status"`
	Images            pq.StringArray   `gorm:"type:text[]" json:"images"`
	CategoryID        *uuid.UUID       `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category          *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	HasVariants       bool             `gorm:"default:false" json:"has_variants"`
	Variants          []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Tags              []Tag            `gorm:"many2many:product_tags;" json:"tags,omitempty"`
	Metadata          JSONMap          `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsInStock derives stock state from the product's own quantity, or from
// its variants once any exist. Pure function of loaded state; variants
// must be preloaded for variant-carrying products.
func (p *Product) IsInStock() bool {
	if p.HasVariants && len(p.Variants) > 0 {
		for _, v := range p.Variants {
			if v.IsActive && v.Quantity > 0 {
				return true
			}
		}
		return false
	}
	return p.Quantity > 0
}

// TotalQuantity sums active variant quantities, or returns the product's
// own quantity when it carries no variants.
func (p *Product) TotalQuantity() int {
	if p.HasVariants && len(p.Variants) > 0 {
		total := 0
		for _, v := range p.Variants {
			if v.IsActive {
				total += v.Quantity
			}
		}
		return total
	}
	return p.Quantity
}

// IsLowStock applies the product-level threshold to whichever quantity
// source is authoritative. A quantity of zero is never low stock:
// low-stock strictly implies in-stock.
func (p *Product) IsLowStock() bool {
	if p.HasVariants && len(p.Variants) > 0 {
		for _, v := range p.Variants {
			if v.IsActive && v.Quantity > 0 && v.Quantity <= p.LowStockThreshold {
				return true
			}
		}
		return false
	}
	return p.Quantity > 0 && p.Quantity <= p.LowStockThreshold
}
