package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los tipos con detalle
// hacen Unwrap() hacia estos centinelas para poder usar errors.Is.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrValidation            = errors.New("validation error")
	ErrUnauthenticated       = errors.New("user not authenticated")
	ErrForbidden             = errors.New("access denied")
	ErrDuplicate             = errors.New("resource already exists")
	ErrUsernameConflict      = errors.New("username already exists")
	ErrInUse                 = errors.New("resource is referenced and cannot be deleted")
	ErrUserInactive          = errors.New("user is inactive")
	ErrInvalidRoleTransition = errors.New("invalid role transition")
	ErrStockNotFound         = errors.New("stock not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrSameWarehouseTransfer = errors.New("cannot transfer stock to the same warehouse")
	ErrIdP                   = errors.New("identity provider operation failed")
)

// NotFoundError recurso referenciado que no existe, con el campo usado en la búsqueda.
type NotFoundError struct {
	Resource string
	Field    string
	Value    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s : %v", e.Resource, e.Field, e.Value)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound construye un NotFoundError.
func NewNotFound(resource, field string, value any) error {
	return &NotFoundError{Resource: resource, Field: field, Value: value}
}

// ValidationError entrada estructuralmente inválida (incluye la regla del último manager).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation construye un ValidationError con el mensaje dado.
func NewValidation(msg string) error {
	return &ValidationError{Message: msg}
}

// UsernameConflictError el username ya existe (local o en el IdP).
type UsernameConflictError struct {
	Username string
}

func (e *UsernameConflictError) Error() string {
	return "Username already exists: " + e.Username
}

func (e *UsernameConflictError) Unwrap() error { return ErrUsernameConflict }

// DuplicateError violación de unicidad distinta de username.
type DuplicateError struct {
	Resource string
	Field    string
	Value    any
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s '%v' already exists", e.Resource, e.Field, e.Value)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// InUseError borrado bloqueado por referencias existentes.
type InUseError struct {
	Message string
}

func (e *InUseError) Error() string { return e.Message }

func (e *InUseError) Unwrap() error { return ErrInUse }

// UserInactiveError operación sobre un usuario desactivado.
type UserInactiveError struct {
	Username string
}

func (e *UserInactiveError) Error() string {
	return "User is inactive: " + e.Username
}

func (e *UserInactiveError) Unwrap() error { return ErrUserInactive }

// InvalidRoleTransitionError el rol destino es igual al actual.
type InvalidRoleTransitionError struct {
	Username    string
	CurrentRole string
	TargetRole  string
}

func (e *InvalidRoleTransitionError) Error() string {
	return fmt.Sprintf("Cannot change role for user '%s' from %s to %s",
		e.Username, e.CurrentRole, e.TargetRole)
}

func (e *InvalidRoleTransitionError) Unwrap() error { return ErrInvalidRoleTransition }

// StockNotFoundError no hay fila de stock para el par producto/bodega.
type StockNotFoundError struct {
	ProductName   string
	WarehouseName string
}

func (e *StockNotFoundError) Error() string {
	return fmt.Sprintf("No stock found for product '%s' in warehouse '%s'",
		e.ProductName, e.WarehouseName)
}

func (e *StockNotFoundError) Unwrap() error { return ErrStockNotFound }

// InsufficientStockError cantidad solicitada mayor que la disponible.
type InsufficientStockError struct {
	ProductName   string
	WarehouseName string
	Requested     int
	Available     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock available for product '%s' in warehouse '%s'. Requested: %d, Available: %d",
		e.ProductName, e.WarehouseName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IdPError fallo de transporte o del servidor al hablar con el proveedor de identidad.
// Conserva la causa original para los logs; Op identifica la operación administrativa.
type IdPError struct {
	Op     string
	Detail string
	Cause  error
}

func (e *IdPError) Error() string {
	return fmt.Sprintf("Keycloak %s failed: %s", e.Op, e.Detail)
}

func (e *IdPError) Unwrap() error { return ErrIdP }

// NewIdPErr construye un IdPError a partir de una causa.
func NewIdPErr(op string, cause error) error {
	detail := "unknown error"
	if cause != nil {
		detail = cause.Error()
	}
	return &IdPError{Op: op, Detail: detail, Cause: cause}
}
