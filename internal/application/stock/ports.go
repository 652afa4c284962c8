package stock

import (
	"context"

	"github.com/LeChef318/warehouse-app/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de stock y su
// entrada de auditoría commiteen juntos o no commiteen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
		auditRepo repository.AuditRepository,
	) error) error
}
