package service

import (
	"errors"

	"github.com/Sasaank79/Inventory-Management-System/internal/apperr"
	"github.com/Sasaank79/Inventory-Management-System/internal/model"
	"github.com/Sasaank79/Inventory-Management-System/internal/repository"
	"github.com/Sasaank79/Inventory-Management-System/internal/ws"
	"github.com/Sasaank79/Inventory-Management-System/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionInput is the payload for appending a ledger row.
type TransactionInput struct {
	ProductID       uint                  `json:"product_id" validate:"required"`
	Quantity        int                   `json:"quantity" validate:"required,gt=0"`
	TransactionType model.TransactionType `json:"transaction_type" validate:"required,oneof=IN OUT"`
	Notes           string                `json:"notes"`
}

// StockService is the accounting engine: every stock figure is derived from
// the transaction ledger, never from a stored counter.
type StockService interface {
	CurrentStock(productID uint) (int, error)
	ValidateAndAppend(input *TransactionInput) (*model.InventoryTransaction, error)
	StockValue() (decimal.Decimal, error)
	RecentTransactions(productID uint, limit int) ([]model.InventoryTransaction, error)
}

type stockService struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	txManager   repository.TxManager
	wsHub       *ws.Hub
}

func NewStockService(pRepo repository.ProductRepository, lRepo repository.LedgerRepository, txm repository.TxManager, hub *ws.Hub) StockService {
	return &stockService{
		productRepo: pRepo,
		ledgerRepo:  lRepo,
		txManager:   txm,
		wsHub:       hub,
	}
}

// CurrentStock runs outside any transaction, so it must be a single
// signed-sum statement. Two separate per-direction sums could straddle a
// concurrent commit and report a stock level that never existed.
func (s *stockService) CurrentStock(productID uint) (int, error) {
	stock, err := s.ledgerRepo.CurrentStock(nil, productID)
	if err != nil {
		return 0, apperr.Storage(err)
	}
	return stock, nil
}

// currentStockTx reads within the caller's transaction; with the product
// row lock held the two per-direction sums see one snapshot.
func (s *stockService) currentStockTx(tx *gorm.DB, productID uint) (int, error) {
	stockIn, err := s.ledgerRepo.SumByDirection(tx, productID, model.TxIn)
	if err != nil {
		return 0, apperr.Storage(err)
	}
	stockOut, err := s.ledgerRepo.SumByDirection(tx, productID, model.TxOut)
	if err != nil {
		return 0, apperr.Storage(err)
	}
	return stockIn - stockOut, nil
}

// ValidateAndAppend is the only write path into the ledger. The OUT branch
// recomputes stock while holding the product row lock, so two concurrent
// OUTs against the same product cannot both pass the check.
func (s *stockService) ValidateAndAppend(input *TransactionInput) (*model.InventoryTransaction, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("field '%s' failed on '%s'", first.FailedField, first.Tag)
	}

	var record *model.InventoryTransaction
	var product *model.Product

	err := s.txManager.Do(func(tx *gorm.DB) error {
		var err error
		product, err = s.productRepo.FindByIDForUpdate(tx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return apperr.Storage(err)
		}

		if input.TransactionType == model.TxOut {
			stock, err := s.currentStockTx(tx, product.ID)
			if err != nil {
				return err
			}
			if stock < input.Quantity {
				return apperr.InsufficientStock("insufficient stock: have %d, want %d", stock, input.Quantity)
			}
		}

		record = &model.InventoryTransaction{
			ProductID:       product.ID,
			Quantity:        input.Quantity,
			TransactionType: input.TransactionType,
			Notes:           input.Notes,
		}
		if err := s.ledgerRepo.Append(tx, record); err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastEvent("transaction_created", map[string]interface{}{
		"id":               record.ID,
		"product_id":       product.ID,
		"product_name":     product.Name,
		"sku":              product.SKU,
		"transaction_type": record.TransactionType,
		"quantity":         record.Quantity,
	})

	return record, nil
}

// StockValue prices the active catalog: sum of currentStock × unit_price.
// Inactive products carry no value until re-activated.
func (s *stockService) StockValue() (decimal.Decimal, error) {
	products, err := s.productRepo.ListActive()
	if err != nil {
		return decimal.Zero, apperr.Storage(err)
	}

	total := decimal.Zero
	for i := range products {
		stock, err := s.ledgerRepo.CurrentStock(nil, products[i].ID)
		if err != nil {
			return decimal.Zero, apperr.Storage(err)
		}
		total = total.Add(products[i].UnitPrice.Mul(decimal.NewFromInt(int64(stock))))
	}
	return total.Round(2), nil
}

func (s *stockService) RecentTransactions(productID uint, limit int) ([]model.InventoryTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	transactions, err := s.ledgerRepo.ListRecent(productID, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return transactions, nil
}
