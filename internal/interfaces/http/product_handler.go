package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/catalog"
	"github.com/LeChef318/warehouse-app/internal/application/dto"
	"github.com/LeChef318/warehouse-app/internal/domain"
)

// ProductHandler CRUD de productos.
type ProductHandler struct {
	uc *catalog.ProductUsecase
}

func NewProductHandler(uc *catalog.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.GetAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewProductResponseList(products))
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	product, stocks, err := h.uc.GetDetail(int64(id))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewProductDetailResponse(product, stocks))
}

// ListByCategory productos de una categoría existente.
func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("categoryId")
	if err != nil {
		return renderError(c, domain.NewValidation("categoryId must be numeric"))
	}
	products, err := h.uc.GetByCategory(int64(categoryID))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewProductResponseList(products))
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	product, err := h.uc.Create(in.Name, in.Description, in.Price, in.CategoryID)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewProductResponse(product))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	product, err := h.uc.Update(int64(id), in.Name, in.Description, in.Price, in.CategoryID)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	if err := h.uc.Delete(int64(id)); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
