package repository

import "gorm.io/gorm"

// TxManager runs a function inside a database transaction. Services depend
// on this instead of *gorm.DB directly so the atomic paths can be exercised
// against in-memory fakes.
type TxManager interface {
	Do(fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(fn func(tx *gorm.DB) error) error {
	return m.db.Transaction(fn)
}
