package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/dto"
	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/application/stock"
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del motor de stock. Resuelve el
// caller a su fila local porque la auditoría referencia usuarios por ID.
type StockHandler struct {
	uc    *stock.Usecase
	users *identity.Usecase
}

func NewStockHandler(uc *stock.Usecase, users *identity.Usecase) *StockHandler {
	return &StockHandler{uc: uc, users: users}
}

// List lista todo el stock.
func (h *StockHandler) List(c *fiber.Ctx) error {
	stocks, err := h.uc.ListAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewStockDetailResponseList(stocks))
}

// ListByProduct lista el stock de un producto.
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil {
		return renderError(c, domain.NewValidation("productId must be numeric"))
	}
	stocks, err := h.uc.ListByProduct(int64(productID))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewStockDetailResponseList(stocks))
}

// ListByWarehouse lista el stock de una bodega.
func (h *StockHandler) ListByWarehouse(c *fiber.Ctx) error {
	warehouseID, err := c.ParamsInt("warehouseId")
	if err != nil {
		return renderError(c, domain.NewValidation("warehouseId must be numeric"))
	}
	stocks, err := h.uc.ListByWarehouse(int64(warehouseID))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewStockDetailResponseList(stocks))
}

// GetOne obtiene la fila de stock de un par producto/bodega.
func (h *StockHandler) GetOne(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil {
		return renderError(c, domain.NewValidation("productId must be numeric"))
	}
	warehouseID, err := c.ParamsInt("warehouseId")
	if err != nil {
		return renderError(c, domain.NewValidation("warehouseId must be numeric"))
	}
	s, err := h.uc.GetOne(int64(productID), int64(warehouseID))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewStockResponse(s))
}

// Create alta de stock inicial (solo MANAGER).
func (h *StockHandler) Create(c *fiber.Ctx) error {
	caller, err := currentUser(c, h.users)
	if err != nil {
		return renderError(c, err)
	}
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	s, err := h.uc.Create(c.Context(), caller.ID, in.ProductID, in.WarehouseID, in.Quantity)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockResponse(s))
}

// Update mutación ADD o REMOVE según el campo operation del cuerpo.
func (h *StockHandler) Update(c *fiber.Ctx) error {
	caller, err := currentUser(c, h.users)
	if err != nil {
		return renderError(c, err)
	}
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	var s *entity.Stock
	switch in.Operation {
	case entity.AuditActionAdd:
		s, err = h.uc.Add(c.Context(), caller.ID, in.ProductID, in.WarehouseID, in.Quantity)
	case entity.AuditActionRemove:
		s, err = h.uc.Remove(c.Context(), caller.ID, in.ProductID, in.WarehouseID, in.Quantity)
	default:
		return renderError(c, domain.NewValidation("operation must be ADD or REMOVE"))
	}
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewStockResponse(s))
}

// Transfer mueve stock entre bodegas distintas.
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	caller, err := currentUser(c, h.users)
	if err != nil {
		return renderError(c, err)
	}
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	s, err := h.uc.Transfer(c.Context(), caller.ID, in.ProductID, in.SourceWarehouseID, in.TargetWarehouseID, in.Quantity)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewStockResponse(s))
}
