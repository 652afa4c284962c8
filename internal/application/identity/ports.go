package identity

import (
	"context"

	"github.com/LeChef318/warehouse-app/internal/domain/repository"
)

// IdPUser representación mínima de un usuario tal como lo devuelve el
// proveedor de identidad.
type IdPUser struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Enabled   bool
}

// IdPClient puerto sobre la API administrativa del proveedor OpenID Connect
// para el realm fijo de la aplicación. Toda operación devuelve IdPError en
// fallos de transporte o del servidor, conservando la causa para los logs.
type IdPClient interface {
	// CreateUser crea la cuenta habilitada, fija password no temporal y asigna
	// exactamente el rol pedido. Ante fallo posterior a la creación compensa
	// borrando la cuenta parcial. HTTP 409 -> UsernameConflictError.
	CreateUser(ctx context.Context, username, password, role, firstName, lastName string) (string, error)
	// UpdateUser actualiza solo los campos no vacíos; el reset de password es independiente.
	UpdateUser(ctx context.Context, externalID, newUsername, newPassword, newFirstName, newLastName string) error
	// SetRole quita todos los roles de realm actuales y añade exactamente el pedido.
	SetRole(ctx context.Context, externalID, role string) error
	DeleteUser(ctx context.Context, externalID string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// FindIDByUsername devuelve "" si no existe cuenta con ese username.
	FindIDByUsername(ctx context.Context, username string) (string, error)
	HasRole(ctx context.Context, externalID, role string) (bool, error)
	ListAll(ctx context.Context) ([]IdPUser, error)
	// PrimaryRole devuelve MANAGER o EMPLOYEE, con MANAGER prioritario si el
	// usuario tiene ambos; "" si no tiene ningún rol reconocido.
	PrimaryRole(ctx context.Context, externalID string) (string, error)
	Available(ctx context.Context) bool
	RequiredRolesExist(ctx context.Context) (bool, error)
}

// UserTxRunner ejecuta una función con un UserRepository atado a una
// transacción. La regla del último manager se verifica y aplica dentro de la
// misma tx para evitar TOCTOU.
type UserTxRunner interface {
	RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository) error) error
}
