package repository

import (
	"github.com/Sasaank79/Inventory-Management-System/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductSearch captures the list query knobs: 1-indexed page, page size,
// case-insensitive substring match on name/sku, sort by "id" or "name".
type ProductSearch struct {
	Page    int
	PerPage int
	Query   string
	SortBy  string
}

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Save(product *model.Product) error
	Delete(tx *gorm.DB, id uint) error
	Search(params ProductSearch) ([]model.Product, int64, error)
	ListActive() ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// Create menerima tx agar bisa berjalan dalam transaksi bersama initial stock
func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Supplier").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row until the surrounding transaction
// commits. This serializes concurrent OUT validation per product.
func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Save(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

// ListActive feeds the valuation and per-supplier aggregates; archived
// products are excluded there.
func (r *productRepo) ListActive() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_active = TRUE").Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Search(params ProductSearch) ([]model.Product, int64, error) {
	query := r.db.Model(&model.Product{})

	if params.Query != "" {
		like := "%" + params.Query + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.SortBy == "name" {
		query = query.Order("name ASC")
	} else {
		query = query.Order("id ASC")
	}

	var products []model.Product
	offset := (params.Page - 1) * params.PerPage
	err := query.Preload("Supplier").Offset(offset).Limit(params.PerPage).Find(&products).Error
	return products, total, err
}
