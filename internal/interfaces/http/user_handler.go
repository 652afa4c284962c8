package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LeChef318/warehouse-app/internal/application/dto"
	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/domain"
)

// UserHandler maneja las peticiones HTTP del ciclo de vida de usuarios.
type UserHandler struct {
	uc *identity.Usecase
}

func NewUserHandler(uc *identity.Usecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Register autoregistro público como EMPLOYEE.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterUserRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	var details []string
	if in.Username == "" {
		details = append(details, "username must not be blank")
	}
	if in.Password == "" {
		details = append(details, "password must not be blank")
	}
	if len(details) > 0 {
		return renderValidationDetails(c, details)
	}
	user, err := h.uc.Register(c.Context(), in.Username, in.Password, in.FirstName, in.LastName)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// List lista todos los usuarios (solo MANAGER).
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.uc.GetAll()
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewUserResponseList(users))
}

// GetByID obtiene un usuario por ID (solo MANAGER).
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	user, err := h.uc.GetByID(int64(id))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Me devuelve el usuario del caller.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c, h.uc)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Update actualización por manager de un usuario arbitrario.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	user, err := h.uc.Update(c.Context(), int64(id), identity.UpdateFields{
		Username:  in.Username,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateMe actualización del propio usuario; el username no se puede cambiar.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	username := CurrentUsername(c)
	if username == "" {
		return renderError(c, domain.ErrUnauthenticated)
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return renderBadBody(c)
	}
	user, err := h.uc.UpdateSelf(c.Context(), username, identity.UpdateFields{
		Username:  in.Username,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Promote asciende a MANAGER.
func (h *UserHandler) Promote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	user, err := h.uc.Promote(c.Context(), int64(id))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Demote degrada a EMPLOYEE.
func (h *UserHandler) Demote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	user, err := h.uc.Demote(c.Context(), int64(id))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Deactivate baja lógica.
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return renderError(c, domain.NewValidation("id must be numeric"))
	}
	if err := h.uc.Deactivate(c.Context(), int64(id)); err != nil {
		return renderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
