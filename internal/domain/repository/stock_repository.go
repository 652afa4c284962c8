package repository

import "github.com/LeChef318/warehouse-app/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por
// producto+bodega. La unicidad del par (producto, bodega) la garantiza el
// storage; las mutaciones siempre corren dentro de una transacción.
type StockRepository interface {
	FindAll() ([]*entity.StockDetail, error)
	FindByProductID(productID int64) ([]*entity.StockDetail, error)
	FindByWarehouseID(warehouseID int64) ([]*entity.StockDetail, error)
	FindOneByProductAndWarehouse(productID, warehouseID int64) (*entity.Stock, error)
	// FindOneForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	// Devuelve nil si no existe fila para el par.
	FindOneForUpdate(productID, warehouseID int64) (*entity.Stock, error)
	CountByProductID(productID int64) (int64, error)
	CountByWarehouseID(warehouseID int64) (int64, error)
	Create(stock *entity.Stock) error
	UpdateQuantity(stock *entity.Stock) error
}
