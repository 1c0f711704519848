package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductStockWithoutVariants(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		threshold    int
		wantInStock  bool
		wantLowStock bool
	}{
		{
			name:         "Zero quantity",
			quantity:     0,
			threshold:    5,
			wantInStock:  false,
			wantLowStock: false,
		},
		{
			name:         "Below threshold",
			quantity:     3,
			threshold:    5,
			wantInStock:  true,
			wantLowStock: true,
		},
		{
			name:         "Exactly at threshold",
			quantity:     5,
			threshold:    5,
			wantInStock:  true,
			wantLowStock: true,
		},
		{
			name:         "Above threshold",
			quantity:     10,
			threshold:    5,
			wantInStock:  true,
			wantLowStock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Quantity: tt.quantity, LowStockThreshold: tt.threshold}
			assert.Equal(t, tt.wantInStock, p.IsInStock())
			assert.Equal(t, tt.wantLowStock, p.IsLowStock())
		})
	}
}

func TestProductStockWithVariants(t *testing.T) {
	tests := []struct {
		name         string
		variants     []ProductVariant
		wantInStock  bool
		wantLowStock bool
	}{
		{
			name: "All variants out of stock",
			variants: []ProductVariant{
				{Quantity: 0, IsActive: true},
				{Quantity: 0, IsActive: true},
			},
			wantInStock:  false,
			wantLowStock: false,
		},
		{
			name: "One variant in stock above threshold",
			variants: []ProductVariant{
				{Quantity: 0, IsActive: true},
				{Quantity: 10, IsActive: true},
			},
			wantInStock:  true,
			wantLowStock: false,
		},
		{
			name: "One variant low on stock",
			variants: []ProductVariant{
				{Quantity: 2, IsActive: true},
				{Quantity: 10, IsActive: true},
			},
			wantInStock:  true,
			wantLowStock: true,
		},
		{
			name: "Inactive variants are ignored",
			variants: []ProductVariant{
				{Quantity: 3, IsActive: false},
			},
			wantInStock:  false,
			wantLowStock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Product quantity is stale once variants exist; it must not
			// leak into the derivation.
			p := &Product{
				Quantity:          99,
				LowStockThreshold: 5,
				HasVariants:       true,
				Variants:          tt.variants,
			}
			assert.Equal(t, tt.wantInStock, p.IsInStock())
			assert.Equal(t, tt.wantLowStock, p.IsLowStock())
		})
	}
}

func TestProductLowStockImpliesInStock(t *testing.T) {
	// Exhaustive sweep over small quantities and thresholds
	for quantity := 0; quantity <= 10; quantity++ {
		for threshold := 0; threshold <= 10; threshold++ {
			p := &Product{Quantity: quantity, LowStockThreshold: threshold}
			if p.IsLowStock() {
				assert.True(t, p.IsInStock(),
					"low stock must imply in stock (quantity=%d threshold=%d)", quantity, threshold)
			}
		}
	}
}

func TestProductStockFallsBackWhenVariantsMissing(t *testing.T) {
	// HasVariants is set but no variant rows were loaded: fall back to the
	// product quantity rather than reporting out of stock.
	p := &Product{Quantity: 7, LowStockThreshold: 5, HasVariants: true}
	assert.True(t, p.IsInStock())
	assert.False(t, p.IsLowStock())
}
