package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeChef318/warehouse-app/internal/application/catalog"
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos (solo lo que el catálogo consulta)
// ──────────────────────────────────────────────────────────────────────────────

type fakeCategoryRepo struct {
	categories map[int64]*entity.Category
	nextID     int64
	deleted    []int64
}

func (r *fakeCategoryRepo) FindByID(id int64) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cc := *c
	return &cc, nil
}
func (r *fakeCategoryRepo) FindAll() ([]*entity.Category, error) { return nil, nil }
func (r *fakeCategoryRepo) ExistsByName(name string) (bool, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakeCategoryRepo) Create(c *entity.Category) error {
	r.nextID++
	c.ID = r.nextID
	cc := *c
	r.categories[c.ID] = &cc
	return nil
}
func (r *fakeCategoryRepo) Update(c *entity.Category) error {
	cc := *c
	r.categories[c.ID] = &cc
	return nil
}
func (r *fakeCategoryRepo) Delete(id int64) error {
	delete(r.categories, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeProductRepo struct {
	products        map[int64]*entity.Product
	countByCategory map[int64]int64
	nextID          int64
}

func (r *fakeProductRepo) FindByID(id int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	pc := *p
	return &pc, nil
}
func (r *fakeProductRepo) FindAll() ([]*entity.Product, error)                       { return nil, nil }
func (r *fakeProductRepo) FindByCategoryID(categoryID int64) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) CountByCategoryID(categoryID int64) (int64, error) {
	return r.countByCategory[categoryID], nil
}
func (r *fakeProductRepo) ExistsByName(name string) (bool, error) {
	for _, p := range r.products {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.nextID++
	p.ID = r.nextID
	pc := *p
	r.products[p.ID] = &pc
	return nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error {
	pc := *p
	r.products[p.ID] = &pc
	return nil
}
func (r *fakeProductRepo) Delete(id int64) error {
	delete(r.products, id)
	return nil
}

type fakeWarehouseRepo struct {
	warehouses map[int64]*entity.Warehouse
	nextID     int64
}

func (r *fakeWarehouseRepo) FindByID(id int64) (*entity.Warehouse, error) {
	w, ok := r.warehouses[id]
	if !ok {
		return nil, nil
	}
	wc := *w
	return &wc, nil
}
func (r *fakeWarehouseRepo) FindAll() ([]*entity.Warehouse, error)  { return nil, nil }
func (r *fakeWarehouseRepo) ExistsByName(name string) (bool, error) {
	for _, w := range r.warehouses {
		if w.Name == name {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error {
	r.nextID++
	w.ID = r.nextID
	wc := *w
	r.warehouses[w.ID] = &wc
	return nil
}
func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error {
	wc := *w
	r.warehouses[w.ID] = &wc
	return nil
}
func (r *fakeWarehouseRepo) Delete(id int64) error {
	delete(r.warehouses, id)
	return nil
}

// fakeStockCounts los conteos de los bloqueos de borrado y las filas de
// detalle que alimentan GetDetail.
type fakeStockCounts struct {
	byProduct   map[int64]int64
	byWarehouse map[int64]int64
	details     []*entity.StockDetail
}

func (r *fakeStockCounts) FindAll() ([]*entity.StockDetail, error) { return r.details, nil }

func (r *fakeStockCounts) FindByProductID(productID int64) ([]*entity.StockDetail, error) {
	var out []*entity.StockDetail
	for _, d := range r.details {
		if d.ProductID == productID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeStockCounts) FindByWarehouseID(warehouseID int64) ([]*entity.StockDetail, error) {
	var out []*entity.StockDetail
	for _, d := range r.details {
		if d.WarehouseID == warehouseID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeStockCounts) FindOneByProductAndWarehouse(int64, int64) (*entity.Stock, error) {
	return nil, nil
}
func (r *fakeStockCounts) FindOneForUpdate(int64, int64) (*entity.Stock, error) { return nil, nil }
func (r *fakeStockCounts) CountByProductID(productID int64) (int64, error) {
	return r.byProduct[productID], nil
}
func (r *fakeStockCounts) CountByWarehouseID(warehouseID int64) (int64, error) {
	return r.byWarehouse[warehouseID], nil
}
func (r *fakeStockCounts) Create(*entity.Stock) error         { return nil }
func (r *fakeStockCounts) UpdateQuantity(*entity.Stock) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	categories *fakeCategoryRepo
	products   *fakeProductRepo
	warehouses *fakeWarehouseRepo
	stocks     *fakeStockCounts

	categoryUC  *catalog.CategoryUsecase
	productUC   *catalog.ProductUsecase
	warehouseUC *catalog.WarehouseUsecase
}

func newCatalogFixture() *fixture {
	f := &fixture{
		categories: &fakeCategoryRepo{categories: make(map[int64]*entity.Category)},
		products:   &fakeProductRepo{products: make(map[int64]*entity.Product), countByCategory: make(map[int64]int64)},
		warehouses: &fakeWarehouseRepo{warehouses: make(map[int64]*entity.Warehouse)},
		stocks:     &fakeStockCounts{byProduct: make(map[int64]int64), byWarehouse: make(map[int64]int64)},
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	f.categoryUC = catalog.NewCategoryUsecase(f.categories, f.products, log)
	f.productUC = catalog.NewProductUsecase(f.products, f.categories, f.stocks, log)
	f.warehouseUC = catalog.NewWarehouseUsecase(f.warehouses, f.stocks, log)
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Unicidad de nombre
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryCreate_NombreDuplicadoFalla(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.categoryUC.Create("Electrónica")
	require.NoError(t, err)

	_, err = f.categoryUC.Create("Electrónica")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.EqualError(t, err, "Category with name 'Electrónica' already exists")
}

func TestCategoryUpdate_MantenerElMismoNombreNoEsConflicto(t *testing.T) {
	f := newCatalogFixture()
	c, err := f.categoryUC.Create("Electrónica")
	require.NoError(t, err)

	_, err = f.categoryUC.Update(c.ID, "Electrónica")
	assert.NoError(t, err)
}

func TestProductCreate_CategoriaInexistenteFalla(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.productUC.Create("Laptop", "", decimal.NewFromInt(100), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductCreate_PrecioNegativoFalla(t *testing.T) {
	f := newCatalogFixture()
	c, err := f.categoryUC.Create("Electrónica")
	require.NoError(t, err)

	_, err = f.productUC.Create("Laptop", "", decimal.NewFromInt(-1), c.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWarehouseCreate_NombreDuplicadoFalla(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.warehouseUC.Create("Central", "Bogotá")
	require.NoError(t, err)

	_, err = f.warehouseUC.Create("Central", "Otra")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloqueos de borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryDelete_ConProductosAsignadosFalla(t *testing.T) {
	f := newCatalogFixture()
	c, err := f.categoryUC.Create("Electrónica")
	require.NoError(t, err)
	f.products.countByCategory[c.ID] = 3

	err = f.categoryUC.Delete(c.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.EqualError(t, err, "Cannot delete category 'Electrónica' because 3 product(s) are assigned to it")
	assert.Empty(t, f.categories.deleted)
}

func TestCategoryDelete_SinProductosFunciona(t *testing.T) {
	f := newCatalogFixture()
	c, err := f.categoryUC.Create("Electrónica")
	require.NoError(t, err)

	require.NoError(t, f.categoryUC.Delete(c.ID))
	assert.Contains(t, f.categories.deleted, c.ID)
}

func TestProductDelete_ConStockFalla(t *testing.T) {
	f := newCatalogFixture()
	c, err := f.categoryUC.Create("Electrónica")
	require.NoError(t, err)
	p, err := f.productUC.Create("Laptop", "", decimal.NewFromInt(100), c.ID)
	require.NoError(t, err)
	f.stocks.byProduct[p.ID] = 2

	err = f.productUC.Delete(p.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.EqualError(t, err, "Cannot delete product 'Laptop' because stock exists in 2 warehouse(s)")
}

func TestWarehouseDelete_ConStockFalla(t *testing.T) {
	f := newCatalogFixture()
	w, err := f.warehouseUC.Create("Central", "Bogotá")
	require.NoError(t, err)
	f.stocks.byWarehouse[w.ID] = 5

	err = f.warehouseUC.Delete(w.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.EqualError(t, err, "Cannot delete warehouse 'Central' because it contains stock of 5 product(s)")
}

func TestWarehouseDelete_InexistenteFallaConNotFound(t *testing.T) {
	f := newCatalogFixture()

	err := f.warehouseUC.Delete(404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Detalle con stock
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseGetDetail_IncluyeElStockDeLaBodega(t *testing.T) {
	f := newCatalogFixture()
	w, err := f.warehouseUC.Create("Central", "Bogotá")
	require.NoError(t, err)
	f.stocks.details = []*entity.StockDetail{
		{ProductID: 1, ProductName: "Laptop", WarehouseID: w.ID, WarehouseName: w.Name, Quantity: 10},
		{ProductID: 2, ProductName: "Mouse", WarehouseID: 99, WarehouseName: "Otra", Quantity: 3},
	}

	got, stocks, err := f.warehouseUC.GetDetail(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central", got.Name)
	require.Len(t, stocks, 1)
	assert.Equal(t, "Laptop", stocks[0].ProductName)
	assert.Equal(t, 10, stocks[0].Quantity)
}

func TestProductGetDetail_IncluyeStockPorBodega(t *testing.T) {
	f := newCatalogFixture()
	c, err := f.categoryUC.Create("Electrónica")
	require.NoError(t, err)
	p, err := f.productUC.Create("Laptop", "", decimal.NewFromInt(100), c.ID)
	require.NoError(t, err)
	f.stocks.details = []*entity.StockDetail{
		{ProductID: p.ID, ProductName: p.Name, WarehouseID: 1, WarehouseName: "Central", Quantity: 7},
		{ProductID: p.ID, ProductName: p.Name, WarehouseID: 2, WarehouseName: "Norte", Quantity: 4},
	}

	got, stocks, err := f.productUC.GetDetail(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", got.Name)
	require.Len(t, stocks, 2)

	_, _, err = f.productUC.GetDetail(404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
