package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/LeChef318/warehouse-app/internal/domain"
)

// Locals keys que deja el middleware de autenticación.
const (
	LocalUsername = "username"
	LocalRoles    = "roles"
)

// clientResourceKey cliente OIDC cuyos roles de cliente cuentan como autoridades.
const clientResourceKey = "warehouse-app"

// rolePrefix prefijo con el que se publican las autoridades derivadas del token.
const rolePrefix = "ROLE_"

// AuthMiddleware extrae identidad y autoridades del Bearer token. La firma ya
// fue validada aguas arriba (gateway OIDC), acá solo se leen los claims: el
// username viene de preferred_username y las autoridades son la unión de los
// roles de realm y los roles del cliente fijo, cada uno con prefijo ROLE_.
func AuthMiddleware() fiber.Handler {
	parser := jwt.NewParser()
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return renderError(c, domain.ErrUnauthenticated)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return renderError(c, domain.ErrUnauthenticated)
		}

		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(strings.TrimSpace(parts[1]), claims); err != nil {
			return renderError(c, domain.ErrUnauthenticated)
		}

		username, _ := claims["preferred_username"].(string)
		if username == "" {
			return renderError(c, domain.ErrUnauthenticated)
		}

		c.Locals(LocalUsername, username)
		c.Locals(LocalRoles, authorities(claims))
		return c.Next()
	}
}

// authorities une roles de realm y del cliente fijo, prefijados con ROLE_.
func authorities(claims jwt.MapClaims) map[string]bool {
	roles := make(map[string]bool)
	if realm, ok := claims["realm_access"].(map[string]any); ok {
		collectRoles(roles, realm["roles"])
	}
	if resources, ok := claims["resource_access"].(map[string]any); ok {
		if client, ok := resources[clientResourceKey].(map[string]any); ok {
			collectRoles(roles, client["roles"])
		}
	}
	return roles
}

func collectRoles(dst map[string]bool, raw any) {
	list, ok := raw.([]any)
	if !ok {
		return
	}
	for _, r := range list {
		if name, ok := r.(string); ok && name != "" {
			dst[rolePrefix+name] = true
		}
	}
}

// CurrentUsername devuelve el username del token, "" si no hay middleware.
func CurrentUsername(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalUsername).(string)
	return v
}

// HasAuthority indica si el caller tiene el rol dado (sin prefijo).
func HasAuthority(c *fiber.Ctx, role string) bool {
	roles, _ := c.Locals(LocalRoles).(map[string]bool)
	return roles[rolePrefix+role]
}

// RequireRole corta con 403 a los callers sin la autoridad pedida.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !HasAuthority(c, role) {
			return renderError(c, domain.ErrForbidden)
		}
		return c.Next()
	}
}
