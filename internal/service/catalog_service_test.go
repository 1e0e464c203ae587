package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Sasaank79/Inventory-Management-System/internal/apperr"
	"github.com/Sasaank79/Inventory-Management-System/internal/model"
	"github.com/Sasaank79/Inventory-Management-System/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type catalogFixture struct {
	catalog   CatalogService
	stock     StockService
	suppliers *fakeSupplierRepo
	products  *fakeProductRepo
	ledger    *fakeLedgerRepo
}

func newCatalogFixture() *catalogFixture {
	suppliers := newFakeSupplierRepo()
	products := newFakeProductRepo()
	ledger := newFakeLedgerRepo()
	txm := &fakeTxManager{}
	stock := NewStockService(products, ledger, txm, nil)
	catalog := NewCatalogService(suppliers, products, ledger, stock, txm, nil)
	return &catalogFixture{catalog: catalog, stock: stock, suppliers: suppliers, products: products, ledger: ledger}
}

func (f *catalogFixture) seedSupplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	supplier, err := f.catalog.CreateSupplier(&SupplierInput{Name: name})
	if err != nil {
		t.Fatalf("seed supplier %s: %v", name, err)
	}
	return supplier
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateSupplier(t *testing.T) {
	f := newCatalogFixture()

	if _, err := f.catalog.CreateSupplier(&SupplierInput{Name: ""}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty name: expected validation error, got %v", err)
	}

	supplier, err := f.catalog.CreateSupplier(&SupplierInput{Name: "Acme", ContactEmail: "sales@acme.test"})
	if err != nil {
		t.Fatal(err)
	}
	if supplier.ID == 0 {
		t.Error("expected assigned id")
	}

	if _, err := f.catalog.CreateSupplier(&SupplierInput{Name: "Acme"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate name: expected conflict, got %v", err)
	}

	all, err := f.catalog.ListSuppliers()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 supplier, got %d", len(all))
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	cases := []struct {
		name  string
		input ProductInput
	}{
		{"missing name", ProductInput{SKU: "X-1", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("1.00")}},
		{"missing sku", ProductInput{Name: "Thing", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("1.00")}},
		{"missing category", ProductInput{Name: "Thing", SKU: "X-1", SupplierID: supplier.ID, UnitPrice: price("1.00")}},
		{"missing supplier", ProductInput{Name: "Thing", SKU: "X-1", Category: "Misc", UnitPrice: price("1.00")}},
		{"missing price", ProductInput{Name: "Thing", SKU: "X-1", Category: "Misc", SupplierID: supplier.ID}},
		{"negative price", ProductInput{Name: "Thing", SKU: "X-1", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("-0.01")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.catalog.CreateProduct(&tc.input); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	input := ProductInput{Name: "Widget", SKU: "X", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("5.00")}
	if _, err := f.catalog.CreateProduct(&input); err != nil {
		t.Fatal(err)
	}

	second := ProductInput{Name: "Other Widget", SKU: "X", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("7.00")}
	if _, err := f.catalog.CreateProduct(&second); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// The failed attempt must not leave catalog or ledger state behind.
	page, err := f.catalog.ListProducts(repository.ProductSearch{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("expected 1 product after failed duplicate, got %d", page.Total)
	}
}

// dupKeyProductRepo simulates losing a same-SKU race: the pre-insert SKU
// lookup sees nothing, but the unique index rejects the insert.
type dupKeyProductRepo struct {
	*fakeProductRepo
}

func (r *dupKeyProductRepo) Create(_ *gorm.DB, _ *model.Product) error {
	return gorm.ErrDuplicatedKey
}

func TestCreateProduct_DuplicateKeyRaceIsConflict(t *testing.T) {
	suppliers := newFakeSupplierRepo()
	products := &dupKeyProductRepo{fakeProductRepo: newFakeProductRepo()}
	ledger := newFakeLedgerRepo()
	txm := &fakeTxManager{}
	stock := NewStockService(products, ledger, txm, nil)
	catalog := NewCatalogService(suppliers, products, ledger, stock, txm, nil)

	supplier := &model.Supplier{Name: "Acme"}
	suppliers.Create(supplier)

	input := ProductInput{Name: "Widget", SKU: "X", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("5.00")}
	if _, err := catalog.CreateProduct(&input); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("unique-index violation on insert should surface as conflict, got %v", err)
	}
}

type dupKeySupplierRepo struct {
	*fakeSupplierRepo
}

func (r *dupKeySupplierRepo) Create(_ *model.Supplier) error {
	return gorm.ErrDuplicatedKey
}

func TestCreateSupplier_DuplicateKeyRaceIsConflict(t *testing.T) {
	suppliers := &dupKeySupplierRepo{fakeSupplierRepo: newFakeSupplierRepo()}
	products := newFakeProductRepo()
	ledger := newFakeLedgerRepo()
	txm := &fakeTxManager{}
	stock := NewStockService(products, ledger, txm, nil)
	catalog := NewCatalogService(suppliers, products, ledger, stock, txm, nil)

	if _, err := catalog.CreateSupplier(&SupplierInput{Name: "Acme"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("unique-index violation on insert should surface as conflict, got %v", err)
	}
}

func TestCreateProduct_UnknownSupplier(t *testing.T) {
	f := newCatalogFixture()

	input := ProductInput{Name: "Widget", SKU: "X", Category: "Misc", SupplierID: 99, UnitPrice: price("5.00")}
	if _, err := f.catalog.CreateProduct(&input); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateProduct_WithInitialStock(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	product, err := f.catalog.CreateProduct(&ProductInput{
		Name: "Widget", SKU: "W-1", Category: "Misc",
		SupplierID: supplier.ID, UnitPrice: price("19.99"), InitialStock: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	stock, err := f.stock.CurrentStock(product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stock != 100 {
		t.Errorf("expected initial stock 100, got %d", stock)
	}

	rows, _ := f.ledger.ListByProductAsc(product.ID)
	if len(rows) != 1 || rows[0].Notes != "Initial stock" || rows[0].TransactionType != model.TxIn {
		t.Errorf("expected a single IN row noted 'Initial stock', got %+v", rows)
	}
}

func TestUpdateProduct(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	first, _ := f.catalog.CreateProduct(&ProductInput{Name: "A", SKU: "SKU-A", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("1.00")})
	f.catalog.CreateProduct(&ProductInput{Name: "B", SKU: "SKU-B", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("2.00")})

	name := "A renamed"
	updated, err := f.catalog.UpdateProduct(first.ID, &ProductUpdateInput{Name: &name, UnitPrice: price("3.50")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "A renamed" || !updated.UnitPrice.Equal(decimal.RequireFromString("3.50")) {
		t.Errorf("partial update not applied: %+v", updated)
	}
	if updated.SKU != "SKU-A" {
		t.Errorf("untouched field changed: %s", updated.SKU)
	}

	taken := "SKU-B"
	if _, err := f.catalog.UpdateProduct(first.ID, &ProductUpdateInput{SKU: &taken}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("sku change to taken value: expected conflict, got %v", err)
	}

	free := "SKU-C"
	if _, err := f.catalog.UpdateProduct(first.ID, &ProductUpdateInput{SKU: &free}); err != nil {
		t.Errorf("sku change to free value: %v", err)
	}

	if _, err := f.catalog.UpdateProduct(999, &ProductUpdateInput{Name: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id: expected not found, got %v", err)
	}
}

func TestToggleActive(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")
	product, _ := f.catalog.CreateProduct(&ProductInput{Name: "A", SKU: "SKU-A", Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("1.00")})

	toggled, err := f.catalog.ToggleActive(product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if toggled.IsActive {
		t.Error("expected product archived after first toggle")
	}

	toggled, _ = f.catalog.ToggleActive(product.ID)
	if !toggled.IsActive {
		t.Error("expected product active after second toggle")
	}

	if _, err := f.catalog.ToggleActive(999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteProduct_CascadesLedgerAndKeepsSupplier(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	product, _ := f.catalog.CreateProduct(&ProductInput{
		Name: "A", SKU: "SKU-A", Category: "Misc",
		SupplierID: supplier.ID, UnitPrice: price("1.00"), InitialStock: 40,
	})

	if err := f.catalog.DeleteProduct(product.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := f.catalog.GetProduct(product.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected product gone, got %v", err)
	}
	if n := f.ledger.count(product.ID); n != 0 {
		t.Errorf("expected ledger history destroyed, %d rows remain", n)
	}

	all, _ := f.catalog.ListSuppliers()
	if len(all) != 1 {
		t.Errorf("supplier should survive product delete, got %d suppliers", len(all))
	}

	if err := f.catalog.DeleteProduct(product.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	for i := 1; i <= 45; i++ {
		_, err := f.catalog.CreateProduct(&ProductInput{
			Name: fmt.Sprintf("Product %02d", i), SKU: fmt.Sprintf("SKU-%03d", i),
			Category: "Misc", SupplierID: supplier.ID, UnitPrice: price("1.00"),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	page, err := f.catalog.ListProducts(repository.ProductSearch{Page: 3, PerPage: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Products) != 5 {
		t.Errorf("expected 5 items on page 3, got %d", len(page.Products))
	}
	if page.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", page.Pages)
	}
	if page.Total != 45 {
		t.Errorf("expected total 45, got %d", page.Total)
	}

	empty, err := f.catalog.ListProducts(repository.ProductSearch{Page: 4, PerPage: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Products) != 0 {
		t.Errorf("out-of-range page should be empty, got %d items", len(empty.Products))
	}
}

func TestListProducts_SearchCaseInsensitive(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	f.catalog.CreateProduct(&ProductInput{Name: "Blue Hammer", SKU: "HAM-1", Category: "Tools", SupplierID: supplier.ID, UnitPrice: price("9.99")})
	f.catalog.CreateProduct(&ProductInput{Name: "Red Wrench", SKU: "WRN-1", Category: "Tools", SupplierID: supplier.ID, UnitPrice: price("4.99")})

	page, err := f.catalog.ListProducts(repository.ProductSearch{Page: 1, PerPage: 10, Query: "hammer"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Products) != 1 || page.Products[0].Name != "Blue Hammer" {
		t.Errorf("expected the hammer only, got %+v", page.Products)
	}

	bySKU, _ := f.catalog.ListProducts(repository.ProductSearch{Page: 1, PerPage: 10, Query: "wrn"})
	if len(bySKU.Products) != 1 || bySKU.Products[0].SKU != "WRN-1" {
		t.Errorf("expected sku match, got %+v", bySKU.Products)
	}
}

func TestGetProduct_ViewCarriesDerivedStock(t *testing.T) {
	f := newCatalogFixture()
	supplier := f.seedSupplier(t, "Acme")

	product, _ := f.catalog.CreateProduct(&ProductInput{
		Name: "A", SKU: "SKU-A", Category: "Misc",
		SupplierID: supplier.ID, UnitPrice: price("2.00"), InitialStock: 50,
	})
	f.stock.ValidateAndAppend(&TransactionInput{ProductID: product.ID, Quantity: 8, TransactionType: model.TxOut})

	view, err := f.catalog.GetProduct(product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Stock != 42 {
		t.Errorf("expected derived stock 42, got %d", view.Stock)
	}
}
