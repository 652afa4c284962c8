package audit

import (
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page resultado paginado de una consulta de auditoría.
type Page struct {
	Content       []*entity.AuditDetail
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

// Usecase consultas de solo lectura sobre el registro de auditoría.
type Usecase struct {
	auditRepo repository.AuditRepository
	log       *logger.Logger
}

func NewUsecase(auditRepo repository.AuditRepository, log *logger.Logger) *Usecase {
	return &Usecase{auditRepo: auditRepo, log: log.Component("audit")}
}

// Recent devuelve las 10 entradas más recientes, de más nueva a más vieja.
func (u *Usecase) Recent() ([]*entity.AuditDetail, error) {
	return u.auditRepo.FindTop10OrderByTimestampDesc()
}

// List devuelve una página filtrada del registro. El filtro de almacén
// coincide tanto con el origen como con el destino de una transferencia.
func (u *Usecase) List(filter repository.AuditFilter, page, size int) (*Page, error) {
	if page < 0 {
		return nil, domain.NewValidation("page must not be negative")
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if filter.Action != nil && !entity.ValidAuditAction(*filter.Action) {
		return nil, domain.NewValidation("invalid audit action filter: " + *filter.Action)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, domain.NewValidation("endDate must not be before startDate")
	}

	entries, total, err := u.auditRepo.FindByFilters(filter, page, size)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return &Page{
		Content:       entries,
		Number:        page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}
