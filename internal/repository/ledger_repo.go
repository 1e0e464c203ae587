package repository

import (
	"time"

	"github.com/Sasaank79/Inventory-Management-System/internal/model"

	"gorm.io/gorm"
)

// LedgerRepository is the append-only store of stock movements. Rows are
// never updated; DeleteByProduct exists only for the product hard-delete
// cascade.
type LedgerRepository interface {
	Append(tx *gorm.DB, record *model.InventoryTransaction) error
	SumByDirection(tx *gorm.DB, productID uint, direction model.TransactionType) (int, error)
	CurrentStock(tx *gorm.DB, productID uint) (int, error)
	ListRecent(productID uint, limit int) ([]model.InventoryTransaction, error)
	ListByProductAsc(productID uint) ([]model.InventoryTransaction, error)
	DeleteByProduct(tx *gorm.DB, productID uint) error
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

// Append menerima tx agar bisa berjalan dalam transaksi dengan stock check
func (r *ledgerRepo) Append(tx *gorm.DB, record *model.InventoryTransaction) error {
	if record.TransactionDate.IsZero() {
		record.TransactionDate = time.Now().UTC()
	}
	return tx.Create(record).Error
}

// SumByDirection runs against the caller's tx so OUT validation reads the
// same snapshot it appends into. Returns 0 when the product has no rows.
func (r *ledgerRepo) SumByDirection(tx *gorm.DB, productID uint, direction model.TransactionType) (int, error) {
	if tx == nil {
		tx = r.db
	}
	var total int
	err := tx.Model(&model.InventoryTransaction{}).
		Where("product_id = ? AND transaction_type = ?", productID, direction).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// CurrentStock is the signed sum IN−OUT in a single statement, so the
// value always comes from one consistent snapshot even without a
// surrounding transaction. Returns 0 when the product has no rows.
func (r *ledgerRepo) CurrentStock(tx *gorm.DB, productID uint) (int, error) {
	if tx == nil {
		tx = r.db
	}
	var total int
	err := tx.Model(&model.InventoryTransaction{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(CASE WHEN transaction_type = 'IN' THEN quantity ELSE -quantity END), 0)").
		Scan(&total).Error
	return total, err
}

// ListRecent returns newest-first rows, optionally filtered by product
// (productID 0 means all products).
func (r *ledgerRepo) ListRecent(productID uint, limit int) ([]model.InventoryTransaction, error) {
	query := r.db.Preload("Product")
	if productID != 0 {
		query = query.Where("product_id = ?", productID)
	}

	var transactions []model.InventoryTransaction
	err := query.Order("transaction_date DESC, id DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

// ListByProductAsc orders by (transaction_date, id). The id tie-break keeps
// running totals deterministic when timestamps collide under load.
func (r *ledgerRepo) ListByProductAsc(productID uint) ([]model.InventoryTransaction, error) {
	var transactions []model.InventoryTransaction
	err := r.db.Where("product_id = ?", productID).
		Order("transaction_date ASC, id ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *ledgerRepo) DeleteByProduct(tx *gorm.DB, productID uint) error {
	return tx.Delete(&model.InventoryTransaction{}, "product_id = ?", productID).Error
}
