package dto

import (
	"github.com/shopspring/decimal"

	"github.com/LeChef318/warehouse-app/internal/domain/entity"
)

// CategoryRequest cuerpo de creación/actualización de categoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse representación pública de una categoría.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductRequest cuerpo de creación/actualización de producto.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"categoryId"`
}

// ProductResponse representación pública de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"categoryId"`
}

// WarehouseRequest cuerpo de creación/actualización de bodega.
type WarehouseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// WarehouseResponse representación pública de una bodega.
type WarehouseResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// ProductStockEntry stock de un producto en una bodega concreta.
type ProductStockEntry struct {
	WarehouseID   int64  `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	Quantity      int    `json:"quantity"`
}

// ProductDetailResponse producto con su stock desglosado por bodega.
type ProductDetailResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	CategoryID  int64               `json:"categoryId"`
	Stocks      []ProductStockEntry `json:"stocks"`
}

// WarehouseStockEntry stock de un producto dentro de la bodega.
type WarehouseStockEntry struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// WarehouseDetailResponse bodega con su stock desglosado por producto.
type WarehouseDetailResponse struct {
	ID       int64                 `json:"id"`
	Name     string                `json:"name"`
	Location string                `json:"location"`
	Stocks   []WarehouseStockEntry `json:"stocks"`
}

func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

func NewCategoryResponseList(categories []*entity.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price, CategoryID: p.CategoryID}
}

func NewProductResponseList(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}

func NewWarehouseResponse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{ID: w.ID, Name: w.Name, Location: w.Location}
}

func NewWarehouseResponseList(warehouses []*entity.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, NewWarehouseResponse(w))
	}
	return out
}

func NewProductDetailResponse(p *entity.Product, stocks []*entity.StockDetail) ProductDetailResponse {
	entries := make([]ProductStockEntry, 0, len(stocks))
	for _, s := range stocks {
		entries = append(entries, ProductStockEntry{
			WarehouseID:   s.WarehouseID,
			WarehouseName: s.WarehouseName,
			Quantity:      s.Quantity,
		})
	}
	return ProductDetailResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Stocks:      entries,
	}
}

func NewWarehouseDetailResponse(w *entity.Warehouse, stocks []*entity.StockDetail) WarehouseDetailResponse {
	entries := make([]WarehouseStockEntry, 0, len(stocks))
	for _, s := range stocks {
		entries = append(entries, WarehouseStockEntry{
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Quantity:    s.Quantity,
		})
	}
	return WarehouseDetailResponse{
		ID:       w.ID,
		Name:     w.Name,
		Location: w.Location,
		Stocks:   entries,
	}
}
