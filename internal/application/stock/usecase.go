package stock

import (
	"context"

	"github.com/LeChef318/warehouse-app/internal/application/audit"
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// Usecase motor de stock: add/remove/transfer transaccionales con exactamente
// una entrada de auditoría por mutación exitosa, más las consultas de lectura.
type Usecase struct {
	tx            TxRunner
	stockRepo     repository.StockRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

// NewUsecase recibe el runner transaccional para mutaciones y repositorios
// atados al pool para lecturas.
func NewUsecase(
	tx TxRunner,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *Usecase {
	return &Usecase{
		tx:            tx,
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log.Component("stock"),
	}
}

func resolveProduct(repo repository.ProductRepository, id int64) (*entity.Product, error) {
	p, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound("Product", "id", id)
	}
	return p, nil
}

func resolveWarehouse(repo repository.WarehouseRepository, id int64) (*entity.Warehouse, error) {
	w, err := repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewNotFound("Warehouse", "id", id)
	}
	return w, nil
}

// ListAll lista todo el stock.
func (u *Usecase) ListAll() ([]*entity.StockDetail, error) {
	return u.stockRepo.FindAll()
}

// ListByProduct lista el stock de un producto. Producto inexistente -> NOT_FOUND.
func (u *Usecase) ListByProduct(productID int64) ([]*entity.StockDetail, error) {
	if _, err := resolveProduct(u.productRepo, productID); err != nil {
		return nil, err
	}
	return u.stockRepo.FindByProductID(productID)
}

// ListByWarehouse lista el stock de una bodega. Bodega inexistente -> NOT_FOUND.
func (u *Usecase) ListByWarehouse(warehouseID int64) ([]*entity.StockDetail, error) {
	if _, err := resolveWarehouse(u.warehouseRepo, warehouseID); err != nil {
		return nil, err
	}
	return u.stockRepo.FindByWarehouseID(warehouseID)
}

// GetOne devuelve la fila de stock para el par producto/bodega.
func (u *Usecase) GetOne(productID, warehouseID int64) (*entity.Stock, error) {
	product, err := resolveProduct(u.productRepo, productID)
	if err != nil {
		return nil, err
	}
	warehouse, err := resolveWarehouse(u.warehouseRepo, warehouseID)
	if err != nil {
		return nil, err
	}
	stock, err := u.stockRepo.FindOneByProductAndWarehouse(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, &domain.StockNotFoundError{ProductName: product.Name, WarehouseName: warehouse.Name}
	}
	return stock, nil
}

// Create inserta stock inicial para un par que aún no existe. Si ya hay fila
// falla con DUPLICATE. Emite una entrada de auditoría ADD, como toda mutación.
func (u *Usecase) Create(ctx context.Context, callerUserID, productID, warehouseID int64, quantity int) (*entity.Stock, error) {
	if quantity <= 0 {
		return nil, domain.NewValidation("quantity must be positive")
	}
	var created *entity.Stock
	err := u.tx.Run(ctx, func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
		auditRepo repository.AuditRepository,
	) error {
		if _, err := resolveProduct(productRepo, productID); err != nil {
			return err
		}
		if _, err := resolveWarehouse(warehouseRepo, warehouseID); err != nil {
			return err
		}
		stock := &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: quantity}
		if err := stockRepo.Create(stock); err != nil {
			return err
		}
		if err := audit.Record(auditRepo, callerUserID, entity.AuditActionAdd, productID, warehouseID, nil, quantity); err != nil {
			return err
		}
		created = stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Int64("product_id", productID).Int64("warehouse_id", warehouseID).
		Int("quantity", quantity).Msg("stock created")
	return created, nil
}

// Add incrementa el stock del par, creando la fila si no existe.
func (u *Usecase) Add(ctx context.Context, callerUserID, productID, warehouseID int64, quantity int) (*entity.Stock, error) {
	if quantity <= 0 {
		return nil, domain.NewValidation("quantity must be positive")
	}
	var result *entity.Stock
	err := u.tx.Run(ctx, func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
		auditRepo repository.AuditRepository,
	) error {
		if _, err := resolveProduct(productRepo, productID); err != nil {
			return err
		}
		if _, err := resolveWarehouse(warehouseRepo, warehouseID); err != nil {
			return err
		}
		stock, err := stockRepo.FindOneForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		if stock == nil {
			stock = &entity.Stock{ProductID: productID, WarehouseID: warehouseID, Quantity: quantity}
			if err := stockRepo.Create(stock); err != nil {
				return err
			}
		} else {
			stock.Quantity += quantity
			if err := stockRepo.UpdateQuantity(stock); err != nil {
				return err
			}
		}
		if err := audit.Record(auditRepo, callerUserID, entity.AuditActionAdd, productID, warehouseID, nil, quantity); err != nil {
			return err
		}
		result = stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Int64("product_id", productID).Int64("warehouse_id", warehouseID).
		Int("quantity", quantity).Msg("stock added")
	return result, nil
}

// Remove descuenta stock existente. La fila se conserva aunque quede en cero.
func (u *Usecase) Remove(ctx context.Context, callerUserID, productID, warehouseID int64, quantity int) (*entity.Stock, error) {
	if quantity <= 0 {
		return nil, domain.NewValidation("quantity must be positive")
	}
	var result *entity.Stock
	err := u.tx.Run(ctx, func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
		auditRepo repository.AuditRepository,
	) error {
		product, err := resolveProduct(productRepo, productID)
		if err != nil {
			return err
		}
		warehouse, err := resolveWarehouse(warehouseRepo, warehouseID)
		if err != nil {
			return err
		}
		stock, err := stockRepo.FindOneForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		if stock == nil {
			return &domain.StockNotFoundError{ProductName: product.Name, WarehouseName: warehouse.Name}
		}
		if stock.Quantity < quantity {
			return &domain.InsufficientStockError{
				ProductName:   product.Name,
				WarehouseName: warehouse.Name,
				Requested:     quantity,
				Available:     stock.Quantity,
			}
		}
		stock.Quantity -= quantity
		if err := stockRepo.UpdateQuantity(stock); err != nil {
			return err
		}
		if err := audit.Record(auditRepo, callerUserID, entity.AuditActionRemove, productID, warehouseID, nil, quantity); err != nil {
			return err
		}
		result = stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Int64("product_id", productID).Int64("warehouse_id", warehouseID).
		Int("quantity", quantity).Msg("stock removed")
	return result, nil
}

// Transfer mueve stock entre bodegas distintas debitando el origen antes de
// acreditar el destino, con exactamente una entrada TRANSFER.
func (u *Usecase) Transfer(ctx context.Context, callerUserID, productID, sourceWarehouseID, targetWarehouseID int64, quantity int) (*entity.Stock, error) {
	if quantity <= 0 {
		return nil, domain.NewValidation("quantity must be positive")
	}
	if sourceWarehouseID == targetWarehouseID {
		return nil, domain.ErrSameWarehouseTransfer
	}
	var result *entity.Stock
	err := u.tx.Run(ctx, func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
		auditRepo repository.AuditRepository,
	) error {
		product, err := resolveProduct(productRepo, productID)
		if err != nil {
			return err
		}
		source, err := resolveWarehouse(warehouseRepo, sourceWarehouseID)
		if err != nil {
			return err
		}
		if _, err := resolveWarehouse(warehouseRepo, targetWarehouseID); err != nil {
			return err
		}

		sourceStock, err := stockRepo.FindOneForUpdate(productID, sourceWarehouseID)
		if err != nil {
			return err
		}
		if sourceStock == nil {
			return &domain.StockNotFoundError{ProductName: product.Name, WarehouseName: source.Name}
		}
		if sourceStock.Quantity < quantity {
			return &domain.InsufficientStockError{
				ProductName:   product.Name,
				WarehouseName: source.Name,
				Requested:     quantity,
				Available:     sourceStock.Quantity,
			}
		}

		// Débito antes de crédito: un fallo intermedio nunca inventa unidades.
		sourceStock.Quantity -= quantity
		if err := stockRepo.UpdateQuantity(sourceStock); err != nil {
			return err
		}

		targetStock, err := stockRepo.FindOneForUpdate(productID, targetWarehouseID)
		if err != nil {
			return err
		}
		if targetStock == nil {
			targetStock = &entity.Stock{ProductID: productID, WarehouseID: targetWarehouseID, Quantity: quantity}
			if err := stockRepo.Create(targetStock); err != nil {
				return err
			}
		} else {
			targetStock.Quantity += quantity
			if err := stockRepo.UpdateQuantity(targetStock); err != nil {
				return err
			}
		}

		if err := audit.Record(auditRepo, callerUserID, entity.AuditActionTransfer, productID, sourceWarehouseID, &targetWarehouseID, quantity); err != nil {
			return err
		}
		result = targetStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Int64("product_id", productID).
		Int64("source_warehouse_id", sourceWarehouseID).
		Int64("target_warehouse_id", targetWarehouseID).
		Int("quantity", quantity).Msg("stock transferred")
	return result, nil
}
