package catalog

import (
	"fmt"
	"strings"

	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// WarehouseUsecase CRUD de bodegas; el borrado se bloquea mientras la bodega
// contenga stock.
type WarehouseUsecase struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	log           *logger.Logger
}

func NewWarehouseUsecase(warehouseRepo repository.WarehouseRepository, stockRepo repository.StockRepository, log *logger.Logger) *WarehouseUsecase {
	return &WarehouseUsecase{warehouseRepo: warehouseRepo, stockRepo: stockRepo, log: log.Component("warehouse")}
}

func (u *WarehouseUsecase) GetAll() ([]*entity.Warehouse, error) {
	return u.warehouseRepo.FindAll()
}

func (u *WarehouseUsecase) GetByID(id int64) (*entity.Warehouse, error) {
	warehouse, err := u.warehouseRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.NewNotFound("Warehouse", "id", id)
	}
	return warehouse, nil
}

// GetDetail devuelve la bodega junto con su stock por producto.
func (u *WarehouseUsecase) GetDetail(id int64) (*entity.Warehouse, []*entity.StockDetail, error) {
	warehouse, err := u.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	stocks, err := u.stockRepo.FindByWarehouseID(id)
	if err != nil {
		return nil, nil, err
	}
	return warehouse, stocks, nil
}

func (u *WarehouseUsecase) Create(name, location string) (*entity.Warehouse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidation("warehouse name must not be blank")
	}
	exists, err := u.warehouseRepo.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateError{Resource: "Warehouse", Field: "name", Value: name}
	}
	warehouse := &entity.Warehouse{Name: name, Location: location}
	if err := u.warehouseRepo.Create(warehouse); err != nil {
		return nil, err
	}
	u.log.Info().Int64("warehouse_id", warehouse.ID).Str("name", name).Msg("warehouse created")
	return warehouse, nil
}

func (u *WarehouseUsecase) Update(id int64, name, location string) (*entity.Warehouse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidation("warehouse name must not be blank")
	}
	warehouse, err := u.GetByID(id)
	if err != nil {
		return nil, err
	}
	if name != warehouse.Name {
		exists, err := u.warehouseRepo.ExistsByName(name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateError{Resource: "Warehouse", Field: "name", Value: name}
		}
	}
	warehouse.Name = name
	warehouse.Location = location
	if err := u.warehouseRepo.Update(warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// Delete borra la bodega salvo que contenga stock.
func (u *WarehouseUsecase) Delete(id int64) error {
	warehouse, err := u.GetByID(id)
	if err != nil {
		return err
	}
	stocks, err := u.stockRepo.CountByWarehouseID(id)
	if err != nil {
		return err
	}
	if stocks > 0 {
		return &domain.InUseError{Message: fmt.Sprintf(
			"Cannot delete warehouse '%s' because it contains stock of %d product(s)",
			warehouse.Name, stocks)}
	}
	if err := u.warehouseRepo.Delete(id); err != nil {
		return err
	}
	u.log.Info().Int64("warehouse_id", id).Msg("warehouse deleted")
	return nil
}
