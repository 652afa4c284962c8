package repository

import (
	"time"

	"github.com/LeChef318/warehouse-app/internal/domain/entity"
)

// AuditFilter criterios opcionales para listar el journal. Los punteros en
// nil no filtran. WarehouseID coincide con bodega origen o destino.
type AuditFilter struct {
	UserID      *int64
	ProductID   *int64
	WarehouseID *int64
	Action      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// AuditRepository define el puerto del journal de auditoría. Solo inserta;
// no existe camino de update ni delete.
type AuditRepository interface {
	Create(entry *entity.AuditEntry) error
	FindTop10OrderByTimestampDesc() ([]*entity.AuditDetail, error)
	// FindByFilters pagina ordenando por timestamp descendente.
	FindByFilters(filter AuditFilter, page, size int) ([]*entity.AuditDetail, int64, error)
}
