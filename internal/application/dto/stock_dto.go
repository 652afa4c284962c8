package dto

import "github.com/LeChef318/warehouse-app/internal/domain/entity"

// CreateStockRequest alta de stock inicial para un par producto/bodega.
type CreateStockRequest struct {
	ProductID   int64 `json:"productId"`
	WarehouseID int64 `json:"warehouseId"`
	Quantity    int   `json:"quantity"`
}

// UpdateStockRequest mutación ADD o REMOVE sobre un par existente.
type UpdateStockRequest struct {
	ProductID   int64  `json:"productId"`
	WarehouseID int64  `json:"warehouseId"`
	Quantity    int    `json:"quantity"`
	Operation   string `json:"operation"`
}

// TransferStockRequest transferencia entre bodegas distintas.
type TransferStockRequest struct {
	ProductID         int64 `json:"productId"`
	SourceWarehouseID int64 `json:"sourceWarehouseId"`
	TargetWarehouseID int64 `json:"targetWarehouseId"`
	Quantity          int   `json:"quantity"`
}

// StockResponse fila de stock sin joins.
type StockResponse struct {
	ID          int64 `json:"id"`
	ProductID   int64 `json:"productId"`
	WarehouseID int64 `json:"warehouseId"`
	Quantity    int   `json:"quantity"`
}

// StockDetailResponse fila de stock con nombres resueltos.
type StockDetailResponse struct {
	ID            int64  `json:"id"`
	ProductID     int64  `json:"productId"`
	ProductName   string `json:"productName"`
	WarehouseID   int64  `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	Quantity      int    `json:"quantity"`
}

func NewStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{ID: s.ID, ProductID: s.ProductID, WarehouseID: s.WarehouseID, Quantity: s.Quantity}
}

func NewStockDetailResponseList(stocks []*entity.StockDetail) []StockDetailResponse {
	out := make([]StockDetailResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, StockDetailResponse{
			ID:            s.ID,
			ProductID:     s.ProductID,
			ProductName:   s.ProductName,
			WarehouseID:   s.WarehouseID,
			WarehouseName: s.WarehouseName,
			Quantity:      s.Quantity,
		})
	}
	return out
}
