package repository

import "github.com/LeChef318/warehouse-app/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	FindByID(id int64) (*entity.Product, error)
	FindAll() ([]*entity.Product, error)
	FindByCategoryID(categoryID int64) ([]*entity.Product, error)
	CountByCategoryID(categoryID int64) (int64, error)
	ExistsByName(name string) (bool, error)
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	Delete(id int64) error
}
