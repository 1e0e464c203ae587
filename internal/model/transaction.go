package model

import "time"

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// InventoryTransaction is a ledger row: the sole source of truth for stock.
// Rows are immutable once created; there is no update or single-row delete.
type InventoryTransaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id" validate:"required"`
	Product         Product         `json:"product,omitempty" validate:"-"` // Relasi - skip validation
	Quantity        int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	TransactionType TransactionType `gorm:"type:varchar(3);not null;check:chk_transaction_type,transaction_type IN ('IN','OUT')" json:"transaction_type" validate:"required,oneof=IN OUT"`
	TransactionDate time.Time       `gorm:"index" json:"transaction_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
}

func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
