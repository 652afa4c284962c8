package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/audit"
	"github.com/LeChef318/warehouse-app/internal/application/dto"
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
)

// AuditHandler consultas de solo lectura sobre el journal (solo MANAGER).
type AuditHandler struct {
	uc *audit.Usecase
}

func NewAuditHandler(uc *audit.Usecase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Recent las 10 entradas más recientes.
func (h *AuditHandler) Recent(c *fiber.Ctx) error {
	entries, err := h.uc.Recent()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewAuditEntryResponseList(entries))
}

// List página filtrada del journal. Filtros por query: userId, productId,
// warehouseId, action, startDate, endDate (RFC 3339), page, size.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var filter repository.AuditFilter

	for name, dst := range map[string]**int64{
		"userId":      &filter.UserID,
		"productId":   &filter.ProductID,
		"warehouseId": &filter.WarehouseID,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return renderError(c, domain.NewValidation(name+" must be numeric"))
		}
		*dst = &v
	}

	if action := c.Query("action"); action != "" {
		filter.Action = &action
	}
	for name, dst := range map[string]**time.Time{
		"startDate": &filter.StartDate,
		"endDate":   &filter.EndDate,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return renderError(c, domain.NewValidation(name+" must be an RFC 3339 timestamp"))
		}
		*dst = &t
	}

	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 0)

	result, err := h.uc.List(filter, page, size)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewAuditPageResponse(result))
}
