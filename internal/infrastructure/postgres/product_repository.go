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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, price, category_id`

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// FindByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductRepo) FindByID(id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// FindAll lista todos los productos.
func (r *ProductRepo) FindAll() ([]*entity.Product, error) {
	return r.findMany(`SELECT ` + productColumns + ` FROM products ORDER BY name`)
}

// FindByCategoryID lista los productos de una categoría.
func (r *ProductRepo) FindByCategoryID(categoryID int64) ([]*entity.Product, error) {
	return r.findMany(`SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY name`, categoryID)
}

func (r *ProductRepo) findMany(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CountByCategoryID cuenta los productos que referencian una categoría.
func (r *ProductRepo) CountByCategoryID(categoryID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// ExistsByName indica si ya existe un producto con ese nombre.
func (r *ProductRepo) ExistsByName(name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM products WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product by name: %w", err)
	}
	return exists, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO products (name, description, price, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		product.Name, product.Description, product.Price, product.CategoryID,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Resource: "Product", Field: "name", Value: product.Name}
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update actualiza un producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE products SET name = $2, description = $3, price = $4, category_id = $5
		WHERE id = $1`,
		product.ID, product.Name, product.Description, product.Price, product.CategoryID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Resource: "Product", Field: "name", Value: product.Name}
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.InUseError{Message: fmt.Sprintf("Cannot delete product with id %d because it is used in stock entries", id)}
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
