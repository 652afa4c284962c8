package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// FindByID obtiene una bodega por ID. Devuelve nil si no existe.
func (r *WarehouseRepo) FindByID(id int64) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, location FROM warehouses WHERE id = $1`, id).Scan(&w.ID, &w.Name, &w.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// FindAll lista todas las bodegas.
func (r *WarehouseRepo) FindAll() ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(context.Background(), `SELECT id, name, location FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// ExistsByName indica si ya existe una bodega con ese nombre.
func (r *WarehouseRepo) ExistsByName(name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM warehouses WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists warehouse by name: %w", err)
	}
	return exists, nil
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	err := r.q.QueryRow(context.Background(),
		`INSERT INTO warehouses (name, location) VALUES ($1, $2) RETURNING id`,
		warehouse.Name, warehouse.Location,
	).Scan(&warehouse.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Resource: "Warehouse", Field: "name", Value: warehouse.Name}
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// Update actualiza una bodega.
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE warehouses SET name = $2, location = $3 WHERE id = $1`,
		warehouse.ID, warehouse.Name, warehouse.Location,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Resource: "Warehouse", Field: "name", Value: warehouse.Name}
		}
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// Delete elimina una bodega por ID.
func (r *WarehouseRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.InUseError{Message: fmt.Sprintf("Cannot delete warehouse with id %d because it contains stock entries", id)}
		}
		return fmt.Errorf("delete warehouse: %w", err)
	}
	return nil
}
