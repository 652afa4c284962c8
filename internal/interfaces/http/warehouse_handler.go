package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/catalog"
	"github.com/LeChef318/warehouse-app/internal/application/dto"
	"github.com/LeChef318/warehouse-app/internal/domain"
)

// WarehouseHandler CRUD de bodegas.
type WarehouseHandler struct {
	uc *catalog.WarehouseUsecase
}

func NewWarehouseHandler(uc *catalog.WarehouseUsecase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	warehouses, err := h.uc.GetAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewWarehouseResponseList(warehouses))
}

func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	warehouse, stocks, err := h.uc.GetDetail(int64(id))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewWarehouseDetailResponse(warehouse, stocks))
}

func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.WarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	warehouse, err := h.uc.Create(in.Name, in.Location)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewWarehouseResponse(warehouse))
}

func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	var in dto.WarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	warehouse, err := h.uc.Update(int64(id), in.Name, in.Location)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewWarehouseResponse(warehouse))
}

func (h *WarehouseHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	if err := h.uc.Delete(int64(id)); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
