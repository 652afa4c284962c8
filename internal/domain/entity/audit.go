package entity

import "time"

// Acciones válidas de auditoría.
const (
	AuditActionAdd      = "ADD"
	AuditActionRemove   = "REMOVE"
	AuditActionTransfer = "TRANSFER"
)

// ValidAuditAction indica si el string corresponde a una acción reconocida.
func ValidAuditAction(action string) bool {
	return action == AuditActionAdd || action == AuditActionRemove || action == AuditActionTransfer
}

// AuditEntry registro inmutable de una mutación de stock. Solo se inserta,
// nunca se actualiza ni se borra. TargetWarehouseID solo aplica a TRANSFER.
type AuditEntry struct {
	ID                int64
	UserID            int64
	Action            string
	ProductID         int64
	WarehouseID       int64
	TargetWarehouseID *int64
	Quantity          int
	Timestamp         time.Time
}

// AuditDetail entrada de auditoría enriquecida con nombres para lecturas.
type AuditDetail struct {
	ID                  int64
	Username            string
	UserRole            string
	Action              string
	ProductName         string
	WarehouseName       string
	TargetWarehouseName *string
	Quantity            int
	Timestamp           time.Time
}
