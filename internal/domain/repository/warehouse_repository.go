package repository

import "github.com/LeChef318/warehouse-app/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse.
type WarehouseRepository interface {
	FindByID(id int64) (*entity.Warehouse, error)
	FindAll() ([]*entity.Warehouse, error)
	ExistsByName(name string) (bool, error)
	Create(warehouse *entity.Warehouse) error
	Update(warehouse *entity.Warehouse) error
	Delete(id int64) error
}
