package dto

import (
	"time"

	"github.com/LeChef318/warehouse-app/internal/application/audit"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
)

// AuditEntryResponse entrada del journal con nombres resueltos.
type AuditEntryResponse struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	UserRole            string    `json:"userRole"`
	Action              string    `json:"action"`
	ProductName         string    `json:"productName"`
	WarehouseName       string    `json:"warehouseName"`
	TargetWarehouseName *string   `json:"targetWarehouseName,omitempty"`
	Quantity            int       `json:"quantity"`
	Timestamp           time.Time `json:"timestamp"`
}

// AuditPageResponse página de entradas ordenadas por timestamp descendente.
type AuditPageResponse struct {
	Content       []AuditEntryResponse `json:"content"`
	Page          int                  `json:"page"`
	Size          int                  `json:"size"`
	TotalElements int64                `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
}

func NewAuditEntryResponseList(entries []*entity.AuditDetail) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:                  e.ID,
			Username:            e.Username,
			UserRole:            e.UserRole,
			Action:              e.Action,
			ProductName:         e.ProductName,
			WarehouseName:       e.WarehouseName,
			TargetWarehouseName: e.TargetWarehouseName,
			Quantity:            e.Quantity,
			Timestamp:           e.Timestamp,
		})
	}
	return out
}

func NewAuditPageResponse(page *audit.Page) AuditPageResponse {
	return AuditPageResponse{
		Content:       NewAuditEntryResponseList(page.Content),
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}
