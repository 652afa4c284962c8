package repository

import "github.com/LeChef318/warehouse-app/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Las consultas que alimentan mutaciones deben ejecutarse con la
// implementación atada a la transacción del caller.
type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	FindByExternalID(externalID string) (*entity.User, error)
	FindAll() ([]*entity.User, error)
	FindAllActive() ([]*entity.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByRole(role string) (bool, error)
	// CountActiveByRole cuenta usuarios activos con el rol dado. Con forUpdate
	// bloquea las filas contadas (SELECT FOR UPDATE) para la regla del último manager.
	CountActiveByRole(role string, forUpdate bool) (int64, error)
	Create(user *entity.User) error
	Update(user *entity.User) error
}
