package service

import (
	"sort"
	"time"

	"github.com/Sasaank79/Inventory-Management-System/internal/apperr"
	"github.com/Sasaank79/Inventory-Management-System/internal/model"
	"github.com/Sasaank79/Inventory-Management-System/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultTopSellingLimit    = 10
	defaultLowStockThreshold  = 20
	defaultRecentProductLimit = 5
)

// MovementEntry is one ledger row with the cumulative stock after it.
type MovementEntry struct {
	ID           uint                  `json:"id"`
	Date         time.Time             `json:"date"`
	Type         model.TransactionType `json:"type"`
	Quantity     int                   `json:"quantity"`
	Notes        string                `json:"notes"`
	RunningStock int                   `json:"running_stock"`
}

// AnalyticsService answers the reporting queries. Everything is recomputed
// from the ledger and catalog at call time; slight staleness under
// concurrent writes is fine for reporting.
type AnalyticsService interface {
	TopSelling(limit int) ([]repository.TopSellingRow, error)
	LowStock(threshold int) ([]repository.LowStockRow, error)
	StockValue() (decimal.Decimal, error)
	RecentProducts(limit int) ([]repository.RecentProductRow, error)
	StockByCategory() ([]repository.CategoryStockRow, error)
	ProductsBySupplier() ([]repository.SupplierProductRow, error)
	StockMovement(productID uint) ([]MovementEntry, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	ledgerRepo    repository.LedgerRepository
	supplierRepo  repository.SupplierRepository
	productRepo   repository.ProductRepository
	stockService  StockService
}

func NewAnalyticsService(aRepo repository.AnalyticsRepository, lRepo repository.LedgerRepository, sRepo repository.SupplierRepository, pRepo repository.ProductRepository, stockSvc StockService) AnalyticsService {
	return &analyticsService{
		analyticsRepo: aRepo,
		ledgerRepo:    lRepo,
		supplierRepo:  sRepo,
		productRepo:   pRepo,
		stockService:  stockSvc,
	}
}

func (s *analyticsService) TopSelling(limit int) ([]repository.TopSellingRow, error) {
	if limit <= 0 {
		limit = defaultTopSellingLimit
	}
	rows, err := s.analyticsRepo.TopSelling(limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rows, nil
}

func (s *analyticsService) LowStock(threshold int) ([]repository.LowStockRow, error) {
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	rows, err := s.analyticsRepo.LowStock(threshold)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rows, nil
}

// StockValue is the accounting engine's valuation, exposed as a report.
func (s *analyticsService) StockValue() (decimal.Decimal, error) {
	return s.stockService.StockValue()
}

func (s *analyticsService) RecentProducts(limit int) ([]repository.RecentProductRow, error) {
	if limit <= 0 {
		limit = defaultRecentProductLimit
	}
	rows, err := s.analyticsRepo.RecentProducts(limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rows, nil
}

func (s *analyticsService) StockByCategory() ([]repository.CategoryStockRow, error) {
	rows, err := s.analyticsRepo.StockByCategory()
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rows, nil
}

// ProductsBySupplier groups the active catalog per supplier. Suppliers
// with no active products are omitted.
func (s *analyticsService) ProductsBySupplier() ([]repository.SupplierProductRow, error) {
	suppliers, err := s.supplierRepo.FindAll()
	if err != nil {
		return nil, apperr.Storage(err)
	}
	products, err := s.productRepo.ListActive()
	if err != nil {
		return nil, apperr.Storage(err)
	}

	type agg struct {
		count int
		stock int
	}
	bySupplier := make(map[uint]*agg)
	for i := range products {
		stock, err := s.ledgerRepo.CurrentStock(nil, products[i].ID)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		a := bySupplier[products[i].SupplierID]
		if a == nil {
			a = &agg{}
			bySupplier[products[i].SupplierID] = a
		}
		a.count++
		a.stock += stock
	}

	rows := make([]repository.SupplierProductRow, 0, len(bySupplier))
	for _, supplier := range suppliers {
		a := bySupplier[supplier.ID]
		if a == nil {
			continue
		}
		rows = append(rows, repository.SupplierProductRow{
			Supplier:     supplier.Name,
			ProductCount: a.count,
			TotalStock:   a.stock,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ProductCount > rows[j].ProductCount })
	return rows, nil
}

// StockMovement is the per-product audit trail: ledger rows ascending by
// (date, id) with the cumulative signed sum at each point.
func (s *analyticsService) StockMovement(productID uint) ([]MovementEntry, error) {
	transactions, err := s.ledgerRepo.ListByProductAsc(productID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return runningTotals(transactions), nil
}

func runningTotals(transactions []model.InventoryTransaction) []MovementEntry {
	entries := make([]MovementEntry, 0, len(transactions))
	running := 0
	for _, t := range transactions {
		if t.TransactionType == model.TxIn {
			running += t.Quantity
		} else {
			running -= t.Quantity
		}
		entries = append(entries, MovementEntry{
			ID:           t.ID,
			Date:         t.TransactionDate,
			Type:         t.TransactionType,
			Quantity:     t.Quantity,
			Notes:        t.Notes,
			RunningStock: running,
		})
	}
	return entries
}
