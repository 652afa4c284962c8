package startup

import (
	"context"
	"fmt"

	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/config"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// Coordinator tareas one-shot de arranque, en orden fijo: sincronización de
// usuarios desde el IdP y bootstrap del admin inicial. Un error aquí aborta
// el arranque del proceso.
type Coordinator struct {
	idp      identity.IdPClient
	userRepo repository.UserRepository
	admin    config.AdminConfig
	log      *logger.Logger
}

func NewCoordinator(idp identity.IdPClient, userRepo repository.UserRepository, admin config.AdminConfig, log *logger.Logger) *Coordinator {
	return &Coordinator{idp: idp, userRepo: userRepo, admin: admin, log: log.Component("startup")}
}

// Run ejecuta las fases en orden. La sincronización tolera un IdP caído
// (se omite); el bootstrap del admin no, porque sin él no habría manager.
func (c *Coordinator) Run(ctx context.Context) error {
	if err := c.syncUsers(ctx); err != nil {
		return fmt.Errorf("user synchronization: %w", err)
	}
	if err := c.bootstrapAdmin(ctx); err != nil {
		return fmt.Errorf("initial admin bootstrap: %w", err)
	}
	return nil
}

// syncUsers reconcilia la tabla local contra el IdP: actualiza o inserta cada
// cuenta del IdP y desactiva los locales cuya cuenta ya no existe allá.
// Idempotente; correr dos veces seguidas no cambia nada la segunda vez.
func (c *Coordinator) syncUsers(ctx context.Context) error {
	if !c.idp.Available(ctx) {
		c.log.Warn().Msg("Keycloak unavailable, skipping user synchronization")
		return nil
	}

	idpUsers, err := c.idp.ListAll(ctx)
	if err != nil {
		return err
	}
	// Solo los activos son candidatos a desactivación; los inactivos que
	// reaparezcan en el IdP se reactivan por la vía FindByExternalID.
	locals, err := c.userRepo.FindAllActive()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(idpUsers))
	var updated, created int
	for _, k := range idpUsers {
		seen[k.ID] = true

		role, err := c.idp.PrimaryRole(ctx, k.ID)
		if err != nil {
			return err
		}
		if !entity.ValidRole(role) {
			role = entity.RoleEmployee
		}

		local, err := c.userRepo.FindByExternalID(k.ID)
		if err != nil {
			return err
		}
		if local == nil {
			user := &entity.User{
				ExternalID: k.ID,
				Username:   k.Username,
				FirstName:  k.FirstName,
				LastName:   k.LastName,
				Role:       role,
				Active:     true,
			}
			if err := c.userRepo.Create(user); err != nil {
				return err
			}
			created++
			continue
		}

		changed := false
		if local.Username != k.Username {
			local.Username = k.Username
			changed = true
		}
		if local.Role != role {
			local.Role = role
			changed = true
		}
		if !local.Active {
			local.Active = true
			changed = true
		}
		if changed {
			if err := c.userRepo.Update(local); err != nil {
				return err
			}
			updated++
		}
	}

	var deactivated int
	for _, l := range locals {
		if l.ExternalID == "" || seen[l.ExternalID] {
			continue
		}
		l.Active = false
		if err := c.userRepo.Update(l); err != nil {
			return err
		}
		deactivated++
	}

	c.log.Info().Int("created", created).Int("updated", updated).
		Int("deactivated", deactivated).Msg("user synchronization finished")
	return nil
}

// bootstrapAdmin garantiza que exista al menos un MANAGER local. Adopta la
// cuenta del IdP si ya existe con ese username; si no, la crea. Compensa
// borrando la cuenta del IdP solo cuando fue creada en esta misma corrida.
func (c *Coordinator) bootstrapAdmin(ctx context.Context) error {
	hasManager, err := c.userRepo.ExistsByRole(entity.RoleManager)
	if err != nil {
		return err
	}
	if hasManager {
		c.log.Info().Msg("manager already present, skipping admin bootstrap")
		return nil
	}

	if !c.idp.Available(ctx) {
		return fmt.Errorf("Keycloak is not available and no manager exists")
	}
	rolesOK, err := c.idp.RequiredRolesExist(ctx)
	if err != nil {
		return err
	}
	if !rolesOK {
		return fmt.Errorf("required realm roles EMPLOYEE and MANAGER do not exist")
	}

	externalID, err := c.idp.FindIDByUsername(ctx, c.admin.Username)
	if err != nil {
		return err
	}
	newlyCreated := false
	if externalID == "" {
		externalID, err = c.idp.CreateUser(ctx, c.admin.Username, c.admin.Password,
			entity.RoleManager, c.admin.FirstName, c.admin.LastName)
		if err != nil {
			return err
		}
		newlyCreated = true
		c.log.Info().Str("username", c.admin.Username).Msg("created initial admin in Keycloak")
	} else {
		isManager, err := c.idp.HasRole(ctx, externalID, entity.RoleManager)
		if err != nil {
			return err
		}
		if !isManager {
			if err := c.idp.SetRole(ctx, externalID, entity.RoleManager); err != nil {
				return err
			}
		}
		c.log.Info().Str("username", c.admin.Username).Msg("adopted existing Keycloak account as initial admin")
	}

	user := &entity.User{
		ExternalID: externalID,
		Username:   c.admin.Username,
		FirstName:  c.admin.FirstName,
		LastName:   c.admin.LastName,
		Role:       entity.RoleManager,
		Active:     true,
	}
	if err := c.userRepo.Create(user); err != nil {
		if newlyCreated {
			if delErr := c.idp.DeleteUser(ctx, externalID); delErr != nil {
				c.log.Error().Err(delErr).Msg("failed to roll back admin account in Keycloak")
			}
		}
		return err
	}

	c.log.Info().Int64("user_id", user.ID).Msg("initial admin bootstrapped")
	return nil
}
