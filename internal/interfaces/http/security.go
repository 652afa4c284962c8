package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
)

// currentUser resuelve el caller del token a su fila local. Un token válido
// sin fila local (usuario borrado o aún no sincronizado) cuenta como no
// autenticado, no como not-found.
func currentUser(c *fiber.Ctx, users *identity.Usecase) (*entity.User, error) {
	username := CurrentUsername(c)
	if username == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if !user.Active {
		return nil, &domain.UserInactiveError{Username: user.Username}
	}
	return user, nil
}
