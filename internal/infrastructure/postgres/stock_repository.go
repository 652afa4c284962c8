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

var _ repository.StockRepository = (*StockRepo)(nil)

const stockDetailQuery = `
	SELECT s.id, s.product_id, p.name, s.warehouse_id, w.name, s.quantity
	FROM stocks s
	JOIN products p ON p.id = s.product_id
	JOIN warehouses w ON w.id = s.warehouse_id`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// FindAll lista todo el stock con nombres de producto y bodega.
func (r *StockRepo) FindAll() ([]*entity.StockDetail, error) {
	return r.findDetails(stockDetailQuery + ` ORDER BY p.name, w.name`)
}

// FindByProductID lista el stock de un producto en todas las bodegas.
func (r *StockRepo) FindByProductID(productID int64) ([]*entity.StockDetail, error) {
	return r.findDetails(stockDetailQuery+` WHERE s.product_id = $1 ORDER BY w.name`, productID)
}

// FindByWarehouseID lista el stock de una bodega.
func (r *StockRepo) FindByWarehouseID(warehouseID int64) ([]*entity.StockDetail, error) {
	return r.findDetails(stockDetailQuery+` WHERE s.warehouse_id = $1 ORDER BY p.name`, warehouseID)
}

func (r *StockRepo) findDetails(query string, args ...any) ([]*entity.StockDetail, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockDetail
	for rows.Next() {
		var s entity.StockDetail
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.WarehouseID, &s.WarehouseName, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// FindOneByProductAndWarehouse obtiene la fila para el par. Devuelve nil si no existe.
func (r *StockRepo) FindOneByProductAndWarehouse(productID, warehouseID int64) (*entity.Stock, error) {
	return r.findOne(productID, warehouseID, false)
}

// FindOneForUpdate obtiene la fila para el par y la bloquea (SELECT FOR UPDATE).
// Dos remove/transfer concurrentes sobre la misma fila se serializan aquí.
func (r *StockRepo) FindOneForUpdate(productID, warehouseID int64) (*entity.Stock, error) {
	return r.findOne(productID, warehouseID, true)
}

func (r *StockRepo) findOne(productID, warehouseID int64, forUpdate bool) (*entity.Stock, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity
		FROM stocks WHERE product_id = $1 AND warehouse_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// CountByProductID cuenta filas de stock que referencian un producto.
func (r *StockRepo) CountByProductID(productID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stocks WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stocks by product: %w", err)
	}
	return n, nil
}

// CountByWarehouseID cuenta filas de stock que referencian una bodega.
func (r *StockRepo) CountByWarehouseID(warehouseID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stocks WHERE warehouse_id = $1`, warehouseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stocks by warehouse: %w", err)
	}
	return n, nil
}

// Create inserta la fila para un par (producto, bodega) que aún no existe.
// La unicidad compuesta la garantiza la constraint del storage.
func (r *StockRepo) Create(stock *entity.Stock) error {
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO stocks (product_id, warehouse_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`,
		stock.ProductID, stock.WarehouseID, stock.Quantity,
	).Scan(&stock.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{
				Resource: "Stock",
				Field:    "product and warehouse",
				Value:    fmt.Sprintf("%d, %d", stock.ProductID, stock.WarehouseID),
			}
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// UpdateQuantity persiste la nueva cantidad de una fila existente.
func (r *StockRepo) UpdateQuantity(stock *entity.Stock) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stocks SET quantity = $2 WHERE id = $1`, stock.ID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	return nil
}
