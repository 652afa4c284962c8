package entity

// Roles válidos para User. Conjunto cerrado en el dominio aunque el IdP
// pueda traer más roles de realm.
const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
)

// ValidRole indica si el string corresponde a un rol reconocido.
func ValidRole(role string) bool {
	return role == RoleEmployee || role == RoleManager
}

// User usuario local espejado contra el proveedor de identidad.
// ExternalID es el identificador opaco del IdP; todo usuario activo lo tiene.
// El borrado es lógico: Active=false y eliminación de la cuenta en el IdP.
type User struct {
	ID         int64
	ExternalID string
	Username   string
	FirstName  string
	LastName   string
	Role       string // EMPLOYEE o MANAGER
	Active     bool
}
