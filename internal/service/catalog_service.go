package service

import (
	"errors"
	"log"
	"time"

	"github.com/Sasaank79/Inventory-Management-System/internal/apperr"
	"github.com/Sasaank79/Inventory-Management-System/internal/model"
	"github.com/Sasaank79/Inventory-Management-System/internal/repository"
	"github.com/Sasaank79/Inventory-Management-System/internal/ws"
	"github.com/Sasaank79/Inventory-Management-System/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SupplierInput struct {
	Name         string `json:"name" validate:"required"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

type ProductInput struct {
	Name         string           `json:"name" validate:"required"`
	SKU          string           `json:"sku" validate:"required"`
	Category     string           `json:"category" validate:"required"`
	SupplierID   uint             `json:"supplier_id" validate:"required"`
	UnitPrice    *decimal.Decimal `json:"unit_price" validate:"required"`
	InitialStock int              `json:"initial_stock"`
}

// ProductUpdateInput is a partial update; nil fields are left untouched.
type ProductUpdateInput struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	SKU       *string          `json:"sku"`
}

// ProductView is a catalog row with its stock derived from the ledger.
type ProductView struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Category   string          `json:"category"`
	SupplierID uint            `json:"supplier_id"`
	Supplier   string          `json:"supplier"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Stock      int             `json:"stock"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ProductPage struct {
	Products    []ProductView `json:"products"`
	Total       int64         `json:"total"`
	Pages       int           `json:"pages"`
	CurrentPage int           `json:"current_page"`
}

type CatalogService interface {
	CreateSupplier(input *SupplierInput) (*model.Supplier, error)
	ListSuppliers() ([]model.Supplier, error)
	CreateProduct(input *ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input *ProductUpdateInput) (*model.Product, error)
	ToggleActive(id uint) (*model.Product, error)
	DeleteProduct(id uint) error
	ListProducts(params repository.ProductSearch) (*ProductPage, error)
	GetProduct(id uint) (*ProductView, error)
}

type catalogService struct {
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	ledgerRepo   repository.LedgerRepository
	stockService StockService
	txManager    repository.TxManager
	wsHub        *ws.Hub
}

func NewCatalogService(sRepo repository.SupplierRepository, pRepo repository.ProductRepository, lRepo repository.LedgerRepository, stockSvc StockService, txm repository.TxManager, hub *ws.Hub) CatalogService {
	return &catalogService{
		supplierRepo: sRepo,
		productRepo:  pRepo,
		ledgerRepo:   lRepo,
		stockService: stockSvc,
		txManager:    txm,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateSupplier(input *SupplierInput) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("name is required")
	}

	existing, err := s.supplierRepo.FindByName(input.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Storage(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("supplier '%s' already exists", input.Name)
	}

	supplier := &model.Supplier{
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		Phone:        input.Phone,
		Address:      input.Address,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		// A concurrent create can slip past the FindByName check; the
		// unique index is the arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("supplier '%s' already exists", input.Name)
		}
		return nil, apperr.Storage(err)
	}
	return supplier, nil
}

func (s *catalogService) ListSuppliers() ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.FindAll()
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return suppliers, nil
}

// CreateProduct commits the product row and its optional initial IN
// transaction in one database transaction, so a failed stock append rolls
// the product back instead of leaving it stranded with zero stock.
func (s *catalogService) CreateProduct(input *ProductInput) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validation("field '%s' failed on '%s'", first.FailedField, first.Tag)
	}
	if input.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit_price must not be negative")
	}
	if input.InitialStock < 0 {
		return nil, apperr.Validation("initial_stock must not be negative")
	}

	existing, err := s.productRepo.FindBySKU(input.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Storage(err)
	}
	if existing != nil {
		return nil, apperr.Conflict("SKU '%s' already exists", input.SKU)
	}

	if _, err := s.supplierRepo.FindByID(input.SupplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier not found")
		}
		return nil, apperr.Storage(err)
	}

	product := &model.Product{
		Name:       input.Name,
		SKU:        input.SKU,
		Category:   input.Category,
		SupplierID: input.SupplierID,
		UnitPrice:  *input.UnitPrice,
		IsActive:   true,
	}

	err = s.txManager.Do(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			// Loser of a concurrent same-SKU create lands here, not in
			// the FindBySKU pre-check above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("SKU '%s' already exists", input.SKU)
			}
			return apperr.Storage(err)
		}
		if input.InitialStock > 0 {
			record := &model.InventoryTransaction{
				ProductID:       product.ID,
				Quantity:        input.InitialStock,
				TransactionType: model.TxIn,
				Notes:           "Initial stock",
			}
			if err := s.ledgerRepo.Append(tx, record); err != nil {
				return apperr.Storage(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastEvent("product_created", map[string]interface{}{
		"id":    product.ID,
		"sku":   product.SKU,
		"name":  product.Name,
		"stock": input.InitialStock,
	})

	return product, nil
}

func (s *catalogService) UpdateProduct(id uint, input *ProductUpdateInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Storage(err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, apperr.Validation("unit_price must not be negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.SKU != nil && *input.SKU != product.SKU {
		existing, err := s.productRepo.FindBySKU(*input.SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Storage(err)
		}
		if existing != nil {
			return nil, apperr.Conflict("SKU '%s' already exists", *input.SKU)
		}
		product.SKU = *input.SKU
	}

	if err := s.productRepo.Save(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("SKU '%s' already exists", product.SKU)
		}
		return nil, apperr.Storage(err)
	}

	go s.wsHub.BroadcastEvent("product_updated", map[string]interface{}{
		"id":   product.ID,
		"sku":  product.SKU,
		"name": product.Name,
	})

	return product, nil
}

func (s *catalogService) ToggleActive(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Storage(err)
	}

	product.IsActive = !product.IsActive
	if err := s.productRepo.Save(product); err != nil {
		return nil, apperr.Storage(err)
	}
	return product, nil
}

// DeleteProduct is an irreversible administrative action: it destroys the
// product's ledger history along with the product, in one transaction.
// Prefer ToggleActive for normal catalog removal.
func (s *catalogService) DeleteProduct(id uint) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Storage(err)
	}

	err = s.txManager.Do(func(tx *gorm.DB) error {
		if err := s.ledgerRepo.DeleteByProduct(tx, product.ID); err != nil {
			return apperr.Storage(err)
		}
		if err := s.productRepo.Delete(tx, product.ID); err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("ADMIN: hard-deleted product %d (sku=%s) and its ledger history", product.ID, product.SKU)

	go s.wsHub.BroadcastEvent("product_deleted", map[string]interface{}{
		"id":  product.ID,
		"sku": product.SKU,
	})

	return nil
}

func (s *catalogService) ListProducts(params repository.ProductSearch) (*ProductPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = 20
	}

	products, total, err := s.productRepo.Search(params)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		view, err := s.toView(&products[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return &ProductPage{
		Products:    views,
		Total:       total,
		Pages:       totalPages(total, params.PerPage),
		CurrentPage: params.Page,
	}, nil
}

func (s *catalogService) GetProduct(id uint) (*ProductView, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Storage(err)
	}
	return s.toView(product)
}

func (s *catalogService) toView(product *model.Product) (*ProductView, error) {
	stock, err := s.stockService.CurrentStock(product.ID)
	if err != nil {
		return nil, err
	}
	return &ProductView{
		ID:         product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		Category:   product.Category,
		SupplierID: product.SupplierID,
		Supplier:   product.Supplier.Name,
		UnitPrice:  product.UnitPrice,
		Stock:      stock,
		IsActive:   product.IsActive,
		CreatedAt:  product.CreatedAt,
	}, nil
}

// totalPages is ceil(total/perPage); a page past the end is an empty page,
// not an error.
func totalPages(total int64, perPage int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
