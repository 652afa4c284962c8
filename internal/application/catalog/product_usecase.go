package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// ProductUsecase CRUD de productos. Cada producto referencia una categoría
// existente; el borrado se bloquea mientras exista stock del producto.
type ProductUsecase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
	log          *logger.Logger
}

func NewProductUsecase(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, stockRepo repository.StockRepository, log *logger.Logger) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, categoryRepo: categoryRepo, stockRepo: stockRepo, log: log.Component("product")}
}

func (u *ProductUsecase) GetAll() ([]*entity.Product, error) {
	return u.productRepo.FindAll()
}

func (u *ProductUsecase) GetByID(id int64) (*entity.Product, error) {
	product, err := u.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("Product", "id", id)
	}
	return product, nil
}

// GetDetail devuelve el producto junto con su stock por bodega.
func (u *ProductUsecase) GetDetail(id int64) (*entity.Product, []*entity.StockDetail, error) {
	product, err := u.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	stocks, err := u.stockRepo.FindByProductID(id)
	if err != nil {
		return nil, nil, err
	}
	return product, stocks, nil
}

// GetByCategory lista los productos de una categoría existente.
func (u *ProductUsecase) GetByCategory(categoryID int64) ([]*entity.Product, error) {
	if err := u.requireCategory(categoryID); err != nil {
		return nil, err
	}
	return u.productRepo.FindByCategoryID(categoryID)
}

func (u *ProductUsecase) requireCategory(categoryID int64) error {
	category, err := u.categoryRepo.FindByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.NewNotFound("Category", "id", categoryID)
	}
	return nil
}

func (u *ProductUsecase) validate(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewValidation("product name must not be blank")
	}
	if price.IsNegative() {
		return domain.NewValidation("product price must not be negative")
	}
	return nil
}

func (u *ProductUsecase) Create(name, description string, price decimal.Decimal, categoryID int64) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if err := u.validate(name, price); err != nil {
		return nil, err
	}
	if err := u.requireCategory(categoryID); err != nil {
		return nil, err
	}
	exists, err := u.productRepo.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateError{Resource: "Product", Field: "name", Value: name}
	}
	product := &entity.Product{Name: name, Description: description, Price: price, CategoryID: categoryID}
	if err := u.productRepo.Create(product); err != nil {
		return nil, err
	}
	u.log.Info().Int64("product_id", product.ID).Str("name", name).Msg("product created")
	return product, nil
}

func (u *ProductUsecase) Update(id int64, name, description string, price decimal.Decimal, categoryID int64) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if err := u.validate(name, price); err != nil {
		return nil, err
	}
	product, err := u.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := u.requireCategory(categoryID); err != nil {
		return nil, err
	}
	if name != product.Name {
		exists, err := u.productRepo.ExistsByName(name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateError{Resource: "Product", Field: "name", Value: name}
		}
	}
	product.Name = name
	product.Description = description
	product.Price = price
	product.CategoryID = categoryID
	if err := u.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete borra el producto salvo que tenga stock en alguna bodega.
func (u *ProductUsecase) Delete(id int64) error {
	product, err := u.GetByID(id)
	if err != nil {
		return err
	}
	stocks, err := u.stockRepo.CountByProductID(id)
	if err != nil {
		return err
	}
	if stocks > 0 {
		return &domain.InUseError{Message: fmt.Sprintf(
			"Cannot delete product '%s' because stock exists in %d warehouse(s)",
			product.Name, stocks)}
	}
	if err := u.productRepo.Delete(id); err != nil {
		return err
	}
	u.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
