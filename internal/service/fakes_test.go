package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Sasaank79/Inventory-Management-System/internal/model"
	"github.com/Sasaank79/Inventory-Management-System/internal/repository"

	"gorm.io/gorm"
)

// In-memory doubles for the repository interfaces. The fake TxManager
// serializes transaction bodies with a mutex, mirroring the row-lock
// serialization the Postgres implementation provides.

type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Do(fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(nil)
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uint]*model.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*model.Product), nextID: 1}
}

func (r *fakeProductRepo) add(p *model.Product) *model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	copied := *p
	r.products[copied.ID] = &copied
	return p
}

func (r *fakeProductRepo) Create(_ *gorm.DB, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *fakeProductRepo) FindByID(id uint) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) FindByIDForUpdate(_ *gorm.DB, id uint) (*model.Product, error) {
	return r.FindByID(id)
}

func (r *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) Save(p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(_ *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) ListActive() ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) Search(params repository.ProductSearch) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		if params.Query != "" {
			q := strings.ToLower(params.Query)
			if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
				continue
			}
		}
		matched = append(matched, *p)
	}

	if params.SortBy == "name" {
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	} else {
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	}

	total := int64(len(matched))
	offset := (params.Page - 1) * params.PerPage
	if offset >= len(matched) {
		return []model.Product{}, total, nil
	}
	end := offset + params.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type fakeLedgerRepo struct {
	mu     sync.Mutex
	rows   []model.InventoryTransaction
	nextID uint
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{nextID: 1}
}

func (r *fakeLedgerRepo) Append(_ *gorm.DB, record *model.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = r.nextID
	r.nextID++
	if record.TransactionDate.IsZero() {
		record.TransactionDate = time.Now().UTC()
	}
	r.rows = append(r.rows, *record)
	return nil
}

func (r *fakeLedgerRepo) SumByDirection(_ *gorm.DB, productID uint, direction model.TransactionType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, row := range r.rows {
		if row.ProductID == productID && row.TransactionType == direction {
			total += row.Quantity
		}
	}
	return total, nil
}

func (r *fakeLedgerRepo) CurrentStock(_ *gorm.DB, productID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, row := range r.rows {
		if row.ProductID != productID {
			continue
		}
		if row.TransactionType == model.TxIn {
			total += row.Quantity
		} else {
			total -= row.Quantity
		}
	}
	return total, nil
}

func (r *fakeLedgerRepo) ListRecent(productID uint, limit int) ([]model.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.InventoryTransaction, 0)
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if productID == 0 || r.rows[i].ProductID == productID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) ListByProductAsc(productID uint) ([]model.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.InventoryTransaction, 0)
	for _, row := range r.rows {
		if row.ProductID == productID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].TransactionDate.Before(out[j].TransactionDate)
	})
	return out, nil
}

func (r *fakeLedgerRepo) DeleteByProduct(_ *gorm.DB, productID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.ProductID != productID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeLedgerRepo) count(productID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows {
		if row.ProductID == productID {
			n++
		}
	}
	return n
}

type fakeSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uint]*model.Supplier
	nextID    uint
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uint]*model.Supplier), nextID: 1}
}

func (r *fakeSupplierRepo) Create(s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	copied := *s
	r.suppliers[copied.ID] = &copied
	return nil
}

func (r *fakeSupplierRepo) FindAll() ([]model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSupplierRepo) FindByID(id uint) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSupplierRepo) FindByName(name string) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if s.Name == name {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAnalyticsRepo struct{}

func (r *fakeAnalyticsRepo) TopSelling(limit int) ([]repository.TopSellingRow, error) {
	return nil, nil
}

func (r *fakeAnalyticsRepo) LowStock(threshold int) ([]repository.LowStockRow, error) {
	return nil, nil
}

func (r *fakeAnalyticsRepo) RecentProducts(limit int) ([]repository.RecentProductRow, error) {
	return nil, nil
}

func (r *fakeAnalyticsRepo) StockByCategory() ([]repository.CategoryStockRow, error) {
	return nil, nil
}
