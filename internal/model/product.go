package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	SKU        string          `gorm:"column:sku;type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Category   string          `gorm:"type:varchar(50);not null" json:"category" validate:"required"`
	SupplierID uint            `gorm:"not null" json:"supplier_id" validate:"required"`
	Supplier   Supplier        `json:"supplier,omitempty" validate:"-"` // Relasi - skip validation
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relasi - append-only ledger rows, removed only by product hard delete
	Transactions []InventoryTransaction `gorm:"constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
