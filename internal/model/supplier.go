package model

import "time"

// Supplier owns zero or more products. Name is globally unique (exact,
// case-sensitive match).
type Supplier struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	ContactEmail string    `gorm:"type:varchar(100)" json:"contact_email"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone"`
	Address      string    `gorm:"type:text" json:"address"`
	CreatedAt    time.Time `json:"created_at"`

	// Relasi
	Products []Product `json:"products,omitempty"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
