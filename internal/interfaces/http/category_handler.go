package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/catalog"
	"github.com/LeChef318/warehouse-app/internal/application/dto"
	"github.com/LeChef318/warehouse-app/internal/domain"
)

// CategoryHandler CRUD de categorías.
type CategoryHandler struct {
	uc *catalog.CategoryUsecase
}

func NewCategoryHandler(uc *catalog.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.uc.GetAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewCategoryResponseList(categories))
}

func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	category, err := h.uc.GetByID(int64(id))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	category, err := h.uc.Create(in.Name)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	category, err := h.uc.Update(int64(id), in.Name)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	if err := h.uc.Delete(int64(id)); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
