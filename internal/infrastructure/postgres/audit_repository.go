package postgres

import (
	"context"
	"fmt"

	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

const auditDetailQuery = `
	SELECT a.id, u.username, u.role, a.action, p.name, w.name, tw.name, a.quantity, a."timestamp"
	FROM audit_logs a
	JOIN users u ON u.id = a.user_id
	JOIN products p ON p.id = a.product_id
	JOIN warehouses w ON w.id = a.warehouse_id
	LEFT JOIN warehouses tw ON tw.id = a.target_warehouse_id`

// AuditRepo implementación del journal de auditoría sobre PostgreSQL.
// Append-only: no hay camino de update ni delete.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta una entrada. Corre en la transacción del caller cuando el
// repo está atado a una tx: o commitean juntos el cambio de stock y su
// entrada, o ninguno.
func (r *AuditRepo) Create(entry *entity.AuditEntry) error {
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO audit_logs (user_id, action, product_id, warehouse_id, target_warehouse_id, quantity, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		entry.UserID, entry.Action, entry.ProductID, entry.WarehouseID,
		entry.TargetWarehouseID, entry.Quantity, entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// FindTop10OrderByTimestampDesc devuelve las 10 entradas más recientes.
func (r *AuditRepo) FindTop10OrderByTimestampDesc() ([]*entity.AuditDetail, error) {
	return r.findDetails(auditDetailQuery + ` ORDER BY a."timestamp" DESC LIMIT 10`)
}

// FindByFilters pagina el journal con filtros opcionales, ordenado por
// timestamp descendente. El filtro de bodega coincide con origen o destino.
func (r *AuditRepo) FindByFilters(filter repository.AuditFilter, page, size int) ([]*entity.AuditDetail, int64, error) {
	where := `
	WHERE ($1::bigint IS NULL OR a.user_id = $1)
	  AND ($2::bigint IS NULL OR a.product_id = $2)
	  AND ($3::bigint IS NULL OR a.warehouse_id = $3 OR a.target_warehouse_id = $3)
	  AND ($4::text IS NULL OR a.action = $4)
	  AND ($5::timestamptz IS NULL OR a."timestamp" >= $5)
	  AND ($6::timestamptz IS NULL OR a."timestamp" <= $6)`
	args := []any{filter.UserID, filter.ProductID, filter.WarehouseID, filter.Action, filter.StartDate, filter.EndDate}

	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM audit_logs a`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := auditDetailQuery + where + ` ORDER BY a."timestamp" DESC LIMIT $7 OFFSET $8`
	list, err := r.findDetails(query, append(args, size, page*size)...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *AuditRepo) findDetails(query string, args ...any) ([]*entity.AuditDetail, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditDetail
	for rows.Next() {
		var d entity.AuditDetail
		if err := rows.Scan(&d.ID, &d.Username, &d.UserRole, &d.Action, &d.ProductName,
			&d.WarehouseName, &d.TargetWarehouseName, &d.Quantity, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
