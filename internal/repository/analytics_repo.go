package repository

import (
	"github.com/Sasaank79/Inventory-Management-System/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row types for the reporting queries. These are raw grouped SQL over the
// ledger + catalog, recomputed on every call; the ledger stays the single
// source of truth for stock.

type TopSellingRow struct {
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

type LowStockRow struct {
	Name  string `json:"name"`
	SKU   string `json:"sku"`
	Stock int    `json:"stock"`
}

type RecentProductRow struct {
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Supplier string          `json:"supplier"`
}

type CategoryStockRow struct {
	Category     string          `json:"category"`
	ProductCount int             `json:"product_count"`
	TotalUnits   int             `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

type SupplierProductRow struct {
	Supplier     string `json:"supplier"`
	ProductCount int    `json:"product_count"`
	TotalStock   int    `json:"total_stock"`
}

type AnalyticsRepository interface {
	TopSelling(limit int) ([]TopSellingRow, error)
	LowStock(threshold int) ([]LowStockRow, error)
	RecentProducts(limit int) ([]RecentProductRow, error)
	StockByCategory() ([]CategoryStockRow, error)
}

type analyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepo{db}
}

func (r *analyticsRepo) TopSelling(limit int) ([]TopSellingRow, error) {
	var rows []TopSellingRow
	err := r.db.Raw(`
		SELECT p.name, SUM(t.quantity) AS total_sold
		FROM inventory_transactions t
		JOIN products p ON t.product_id = p.id
		WHERE t.transaction_type = ?
		GROUP BY p.id, p.name
		ORDER BY total_sold DESC
		LIMIT ?
	`, model.TxOut, limit).Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepo) LowStock(threshold int) ([]LowStockRow, error) {
	// HAVING must repeat the aggregate expression; Postgres does not allow
	// referencing the SELECT alias there.
	var rows []LowStockRow
	err := r.db.Raw(`
		SELECT p.name, p.sku,
		       (COALESCE(SUM(CASE WHEN t.transaction_type = 'IN' THEN t.quantity ELSE 0 END), 0) -
		        COALESCE(SUM(CASE WHEN t.transaction_type = 'OUT' THEN t.quantity ELSE 0 END), 0)) AS stock
		FROM products p
		LEFT JOIN inventory_transactions t ON p.id = t.product_id
		WHERE p.is_active = TRUE
		GROUP BY p.id, p.name, p.sku
		HAVING (COALESCE(SUM(CASE WHEN t.transaction_type = 'IN' THEN t.quantity ELSE 0 END), 0) -
		        COALESCE(SUM(CASE WHEN t.transaction_type = 'OUT' THEN t.quantity ELSE 0 END), 0)) < ?
		ORDER BY stock ASC
	`, threshold).Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepo) RecentProducts(limit int) ([]RecentProductRow, error) {
	// id is monotonically assigned, so descending id is descending recency.
	var rows []RecentProductRow
	err := r.db.Raw(`
		SELECT p.name, p.sku, p.unit_price AS price, s.name AS supplier
		FROM products p
		JOIN suppliers s ON p.supplier_id = s.id
		WHERE p.is_active = TRUE
		ORDER BY p.id DESC
		LIMIT ?
	`, limit).Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepo) StockByCategory() ([]CategoryStockRow, error) {
	var rows []CategoryStockRow
	err := r.db.Raw(`
		SELECT p.category,
		       COUNT(DISTINCT p.id) AS product_count,
		       COALESCE(SUM(COALESCE(in_sum, 0) - COALESCE(out_sum, 0)), 0) AS total_units,
		       COALESCE(SUM((COALESCE(in_sum, 0) - COALESCE(out_sum, 0)) * p.unit_price), 0) AS total_value
		FROM products p
		LEFT JOIN (
			SELECT product_id, SUM(quantity) AS in_sum
			FROM inventory_transactions
			WHERE transaction_type = 'IN'
			GROUP BY product_id
		) in_t ON p.id = in_t.product_id
		LEFT JOIN (
			SELECT product_id, SUM(quantity) AS out_sum
			FROM inventory_transactions
			WHERE transaction_type = 'OUT'
			GROUP BY product_id
		) out_t ON p.id = out_t.product_id
		WHERE p.is_active = TRUE
		GROUP BY p.category
		ORDER BY total_value DESC
	`).Scan(&rows).Error
	return rows, err
}
