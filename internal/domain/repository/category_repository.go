package repository

import "github.com/LeChef318/warehouse-app/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	FindByID(id int64) (*entity.Category, error)
	FindAll() ([]*entity.Category, error)
	ExistsByName(name string) (bool, error)
	Create(category *entity.Category) error
	Update(category *entity.Category) error
	Delete(id int64) error
}
