package identity

import (
	"context"
	"strings"

	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// Usecase reconciliador de identidad: mantiene consistentes la tabla local de
// usuarios y las cuentas del IdP. Las dos mutaciones no son atómicas entre sí,
// así que cada split documenta su compensación best-effort.
type Usecase struct {
	idp      IdPClient
	userRepo repository.UserRepository
	userTx   UserTxRunner
	log      *logger.Logger
}

func NewUsecase(idp IdPClient, userRepo repository.UserRepository, userTx UserTxRunner, log *logger.Logger) *Usecase {
	return &Usecase{idp: idp, userRepo: userRepo, userTx: userTx, log: log.Component("identity")}
}

// UpdateFields campos opcionales de una actualización de usuario. Los campos
// vacíos no se tocan.
type UpdateFields struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// GetAll lista todos los usuarios locales, activos o no.
func (u *Usecase) GetAll() ([]*entity.User, error) {
	return u.userRepo.FindAll()
}

// GetByID obtiene un usuario local por ID.
func (u *Usecase) GetByID(id int64) (*entity.User, error) {
	user, err := u.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFound("User", "id", id)
	}
	return user, nil
}

// GetByUsername obtiene un usuario local por username.
func (u *Usecase) GetByUsername(username string) (*entity.User, error) {
	user, err := u.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFound("User", "username", username)
	}
	return user, nil
}

// Register autoregistro público como EMPLOYEE. Crea primero la cuenta en el
// IdP; si la inserción local falla, compensa borrando la cuenta recién creada
// sin enmascarar el error original.
func (u *Usecase) Register(ctx context.Context, username, password, firstName, lastName string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidation("username must not be blank")
	}
	if password == "" {
		return nil, domain.NewValidation("password must not be blank")
	}

	exists, err := u.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.UsernameConflictError{Username: username}
	}

	externalID, err := u.idp.CreateUser(ctx, username, password, entity.RoleEmployee, firstName, lastName)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ExternalID: externalID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       entity.RoleEmployee,
		Active:     true,
	}
	if err := u.userRepo.Create(user); err != nil {
		// Compensación: la cuenta del IdP quedó huérfana, se borra.
		if delErr := u.idp.DeleteUser(ctx, externalID); delErr != nil {
			u.log.Error().Err(delErr).Str("external_id", externalID).
				Msg("failed to roll back IdP user after local insert failure")
		} else {
			u.log.Info().Str("username", username).Msg("rolled back IdP user after local insert failure")
		}
		return nil, domain.NewIdPErr("user creation", err)
	}

	u.log.Info().Str("username", username).Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Update actualización por manager de un usuario arbitrario.
func (u *Usecase) Update(ctx context.Context, id int64, fields UpdateFields) (*entity.User, error) {
	user, err := u.GetByID(id)
	if err != nil {
		return nil, err
	}
	return u.applyUpdate(ctx, user, fields)
}

// UpdateSelf actualización del propio usuario. No permite cambiar el username.
func (u *Usecase) UpdateSelf(ctx context.Context, callerUsername string, fields UpdateFields) (*entity.User, error) {
	user, err := u.userRepo.FindByUsername(callerUsername)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if fields.Username != "" && fields.Username != user.Username {
		return nil, domain.ErrForbidden
	}
	fields.Username = ""
	return u.applyUpdate(ctx, user, fields)
}

func (u *Usecase) applyUpdate(ctx context.Context, user *entity.User, fields UpdateFields) (*entity.User, error) {
	if !user.Active {
		return nil, &domain.UserInactiveError{Username: user.Username}
	}

	newUsername := ""
	if fields.Username != "" && fields.Username != user.Username {
		taken, err := u.userRepo.ExistsByUsername(fields.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &domain.UsernameConflictError{Username: fields.Username}
		}
		newUsername = fields.Username
	}

	// Primero el IdP; si falla no se toca la fila local.
	if err := u.idp.UpdateUser(ctx, user.ExternalID, newUsername, fields.Password, fields.FirstName, fields.LastName); err != nil {
		return nil, err
	}

	if newUsername != "" {
		user.Username = newUsername
	}
	if fields.FirstName != "" {
		user.FirstName = fields.FirstName
	}
	if fields.LastName != "" {
		user.LastName = fields.LastName
	}
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}

	u.log.Info().Int64("user_id", user.ID).Msg("user updated")
	return user, nil
}

// Promote asciende un usuario a MANAGER.
func (u *Usecase) Promote(ctx context.Context, id int64) (*entity.User, error) {
	return u.changeRole(ctx, id, entity.RoleManager)
}

// Demote degrada un usuario a EMPLOYEE. Nunca degrada al último manager activo.
func (u *Usecase) Demote(ctx context.Context, id int64) (*entity.User, error) {
	return u.changeRole(ctx, id, entity.RoleEmployee)
}

func (u *Usecase) changeRole(ctx context.Context, id int64, targetRole string) (*entity.User, error) {
	var updated *entity.User
	err := u.userTx.RunUsers(ctx, func(userRepo repository.UserRepository) error {
		user, err := userRepo.FindByID(id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewNotFound("User", "id", id)
		}
		if !user.Active {
			return &domain.UserInactiveError{Username: user.Username}
		}
		if user.Role == targetRole {
			return &domain.InvalidRoleTransitionError{
				Username:    user.Username,
				CurrentRole: user.Role,
				TargetRole:  targetRole,
			}
		}
		if targetRole == entity.RoleEmployee {
			// Cuenta con lock de filas: dos demotes concurrentes se serializan.
			managers, err := userRepo.CountActiveByRole(entity.RoleManager, true)
			if err != nil {
				return err
			}
			if managers < 2 {
				return domain.NewValidation("Cannot demote the last manager")
			}
		}
		if err := u.idp.SetRole(ctx, user.ExternalID, targetRole); err != nil {
			return err
		}
		user.Role = targetRole
		if err := userRepo.Update(user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Int64("user_id", id).Str("role", targetRole).Msg("user role changed")
	return updated, nil
}

// Deactivate baja lógica: borra la cuenta del IdP y marca la fila local como
// inactiva. La fila se conserva para que la auditoría histórica siga resoluble.
func (u *Usecase) Deactivate(ctx context.Context, id int64) error {
	err := u.userTx.RunUsers(ctx, func(userRepo repository.UserRepository) error {
		user, err := userRepo.FindByID(id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewNotFound("User", "id", id)
		}
		if !user.Active {
			return &domain.UserInactiveError{Username: user.Username}
		}
		if user.Role == entity.RoleManager {
			managers, err := userRepo.CountActiveByRole(entity.RoleManager, true)
			if err != nil {
				return err
			}
			if managers <= 1 {
				return domain.NewValidation("Cannot deactivate the last manager")
			}
		}
		if err := u.idp.DeleteUser(ctx, user.ExternalID); err != nil {
			return err
		}
		user.Active = false
		return userRepo.Update(user)
	})
	if err != nil {
		return err
	}
	u.log.Info().Int64("user_id", id).Msg("user deactivated")
	return nil
}
