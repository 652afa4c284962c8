package catalog

import (
	"fmt"
	"strings"

	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// CategoryUsecase CRUD de categorías con unicidad de nombre y borrado
// bloqueado mientras existan productos asignados.
type CategoryUsecase struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	log          *logger.Logger
}

func NewCategoryUsecase(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, log *logger.Logger) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo, productRepo: productRepo, log: log.Component("category")}
}

func (u *CategoryUsecase) GetAll() ([]*entity.Category, error) {
	return u.categoryRepo.FindAll()
}

func (u *CategoryUsecase) GetByID(id int64) (*entity.Category, error) {
	category, err := u.categoryRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NewNotFound("Category", "id", id)
	}
	return category, nil
}

func (u *CategoryUsecase) Create(name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidation("category name must not be blank")
	}
	exists, err := u.categoryRepo.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateError{Resource: "Category", Field: "name", Value: name}
	}
	category := &entity.Category{Name: name}
	if err := u.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	u.log.Info().Int64("category_id", category.ID).Str("name", name).Msg("category created")
	return category, nil
}

func (u *CategoryUsecase) Update(id int64, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidation("category name must not be blank")
	}
	category, err := u.GetByID(id)
	if err != nil {
		return nil, err
	}
	if name != category.Name {
		exists, err := u.categoryRepo.ExistsByName(name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateError{Resource: "Category", Field: "name", Value: name}
		}
	}
	category.Name = name
	if err := u.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete borra la categoría salvo que tenga productos asignados.
func (u *CategoryUsecase) Delete(id int64) error {
	category, err := u.GetByID(id)
	if err != nil {
		return err
	}
	products, err := u.productRepo.CountByCategoryID(id)
	if err != nil {
		return err
	}
	if products > 0 {
		return &domain.InUseError{Message: fmt.Sprintf(
			"Cannot delete category '%s' because %d product(s) are assigned to it",
			category.Name, products)}
	}
	if err := u.categoryRepo.Delete(id); err != nil {
		return err
	}
	u.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
