package audit

import (
	"fmt"
	"time"

	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
)

// Record valida y persiste una entrada de auditoría usando el repositorio
// recibido, que debe estar ligado a la misma transacción que la mutación de
// stock que la origina. El timestamp se fija en el instante de la llamada.
func Record(auditRepo repository.AuditRepository, userID int64, action string, productID, warehouseID int64, targetWarehouseID *int64, quantity int) error {
	if !entity.ValidAuditAction(action) {
		return domain.NewValidation(fmt.Sprintf("invalid audit action: %s", action))
	}
	if quantity <= 0 {
		return domain.NewValidation("audit quantity must be positive")
	}
	if action == entity.AuditActionTransfer {
		if targetWarehouseID == nil {
			return domain.NewValidation("transfer audit requires a target warehouse")
		}
		if *targetWarehouseID == warehouseID {
			return domain.NewValidation("transfer audit requires distinct warehouses")
		}
	} else if targetWarehouseID != nil {
		return domain.NewValidation(fmt.Sprintf("audit action %s does not accept a target warehouse", action))
	}

	entry := &entity.AuditEntry{
		UserID:            userID,
		Action:            action,
		ProductID:         productID,
		WarehouseID:       warehouseID,
		TargetWarehouseID: targetWarehouseID,
		Quantity:          quantity,
		Timestamp:         time.Now().UTC(),
	}
	return auditRepo.Create(entry)
}
