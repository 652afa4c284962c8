package identity_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeIdP IdP en memoria con fallos inyectables por operación.
type fakeIdP struct {
	users     map[string]*identity.IdPUser // por external id
	roles     map[string]string            // external id -> rol
	nextID    int
	failOn    map[string]error // nombre de método -> error
	deleted   []string
	available bool
	rolesOK   bool
}

func newFakeIdP() *fakeIdP {
	return &fakeIdP{
		users:     make(map[string]*identity.IdPUser),
		roles:     make(map[string]string),
		failOn:    make(map[string]error),
		available: true,
		rolesOK:   true,
	}
}

func (f *fakeIdP) CreateUser(ctx context.Context, username, password, role, firstName, lastName string) (string, error) {
	if err := f.failOn["CreateUser"]; err != nil {
		return "", err
	}
	for _, u := range f.users {
		if u.Username == username {
			return "", &domain.UsernameConflictError{Username: username}
		}
	}
	f.nextID++
	id := fmt.Sprintf("ext-%d", f.nextID)
	f.users[id] = &identity.IdPUser{ID: id, Username: username, FirstName: firstName, LastName: lastName, Enabled: true}
	f.roles[id] = role
	return id, nil
}

func (f *fakeIdP) UpdateUser(ctx context.Context, externalID, newUsername, newPassword, newFirstName, newLastName string) error {
	if err := f.failOn["UpdateUser"]; err != nil {
		return err
	}
	u, ok := f.users[externalID]
	if !ok {
		return domain.NewIdPErr("user update", errors.New("user not found"))
	}
	if newUsername != "" {
		u.Username = newUsername
	}
	if newFirstName != "" {
		u.FirstName = newFirstName
	}
	if newLastName != "" {
		u.LastName = newLastName
	}
	return nil
}

func (f *fakeIdP) SetRole(ctx context.Context, externalID, role string) error {
	if err := f.failOn["SetRole"]; err != nil {
		return err
	}
	f.roles[externalID] = role
	return nil
}

func (f *fakeIdP) DeleteUser(ctx context.Context, externalID string) error {
	if err := f.failOn["DeleteUser"]; err != nil {
		return err
	}
	delete(f.users, externalID)
	delete(f.roles, externalID)
	f.deleted = append(f.deleted, externalID)
	return nil
}

func (f *fakeIdP) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeIdP) FindIDByUsername(ctx context.Context, username string) (string, error) {
	for id, u := range f.users {
		if u.Username == username {
			return id, nil
		}
	}
	return "", nil
}

func (f *fakeIdP) HasRole(ctx context.Context, externalID, role string) (bool, error) {
	return f.roles[externalID] == role, nil
}

func (f *fakeIdP) ListAll(ctx context.Context) ([]identity.IdPUser, error) {
	var out []identity.IdPUser
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeIdP) PrimaryRole(ctx context.Context, externalID string) (string, error) {
	return f.roles[externalID], nil
}

func (f *fakeIdP) Available(ctx context.Context) bool { return f.available }

func (f *fakeIdP) RequiredRolesExist(ctx context.Context) (bool, error) { return f.rolesOK, nil }

// fakeUserRepo repositorio de usuarios en memoria.
type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
	// failCreate fuerza el fallo de la inserción local para probar compensación
	failCreate error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User)}
}

func (r *fakeUserRepo) FindByID(id int64) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByExternalID(externalID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ExternalID == externalID {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeUserRepo) FindAllActive() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Active {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByUsername(username string) (bool, error) {
	u, _ := r.FindByUsername(username)
	return u != nil, nil
}

func (r *fakeUserRepo) ExistsByRole(role string) (bool, error) {
	for _, u := range r.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountActiveByRole(role string, forUpdate bool) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role && u.Active {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	u.ID = r.nextID
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	c := *u
	r.users[u.ID] = &c
	return nil
}

// fakeUserTx ejecuta el closure directamente sobre el repo; las pruebas de
// rollback transaccional real viven en la capa de infraestructura.
type fakeUserTx struct{ repo *fakeUserRepo }

func (t *fakeUserTx) RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository) error) error {
	return fn(t.repo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

func newIdentityFixture() (*identity.Usecase, *fakeIdP, *fakeUserRepo) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := identity.NewUsecase(idp, repo, &fakeUserTx{repo: repo}, log)
	return uc, idp, repo
}

func seedUser(t *testing.T, idp *fakeIdP, repo *fakeUserRepo, username, role string, active bool) *entity.User {
	t.Helper()
	extID, err := idp.CreateUser(context.Background(), username, "secret", role, "", "")
	require.NoError(t, err)
	u := &entity.User{ExternalID: extID, Username: username, Role: role, Active: active}
	require.NoError(t, repo.Create(u))
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaEnIdPYLocal(t *testing.T) {
	uc, idp, repo := newIdentityFixture()

	user, err := uc.Register(context.Background(), "ana", "secret", "Ana", "García")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleEmployee, user.Role)
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.ExternalID)
	assert.Equal(t, entity.RoleEmployee, idp.roles[user.ExternalID])

	local, err := repo.FindByUsername("ana")
	require.NoError(t, err)
	require.NotNil(t, local)
}

func TestRegister_UsernameLocalOcupadoFallaConConflict(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)

	_, err := uc.Register(context.Background(), "ana", "secret", "", "")
	assert.ErrorIs(t, err, domain.ErrUsernameConflict)
	assert.EqualError(t, err, "Username already exists: ana")
}

func TestRegister_FalloLocalCompensaBorrandoEnIdP(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	insertErr := errors.New("insert failed")
	repo.failCreate = insertErr

	_, err := uc.Register(context.Background(), "ana", "secret", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIdP, "el fallo de registro se reporta como fallo del IdP")
	assert.EqualError(t, err, "Keycloak user creation failed: insert failed",
		"la causa original debe conservarse en el mensaje")
	assert.Empty(t, idp.users, "la cuenta huérfana del IdP debe borrarse")
	require.Len(t, idp.deleted, 1)
}

func TestRegister_CamposEnBlancoFallan(t *testing.T) {
	uc, _, _ := newIdentityFixture()

	_, err := uc.Register(context.Background(), "  ", "secret", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Register(context.Background(), "ana", "", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / UpdateSelf
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_CambiaUsernameEnAmbosLados(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)

	updated, err := uc.Update(context.Background(), u.ID, identity.UpdateFields{Username: "ana.maria"})
	require.NoError(t, err)

	assert.Equal(t, "ana.maria", updated.Username)
	assert.Equal(t, "ana.maria", idp.users[u.ExternalID].Username)
}

func TestUpdate_UsuarioInactivoFalla(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "ana", entity.RoleEmployee, false)

	_, err := uc.Update(context.Background(), u.ID, identity.UpdateFields{FirstName: "Ana"})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestUpdate_UsernameOcupadoFalla(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)
	seedUser(t, idp, repo, "juan", entity.RoleEmployee, true)

	_, err := uc.Update(context.Background(), u.ID, identity.UpdateFields{Username: "juan"})
	assert.ErrorIs(t, err, domain.ErrUsernameConflict)
}

func TestUpdate_FalloIdPNoTocaLaFilaLocal(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)
	idp.failOn["UpdateUser"] = domain.NewIdPErr("user update", errors.New("boom"))

	_, err := uc.Update(context.Background(), u.ID, identity.UpdateFields{Username: "otra"})
	assert.ErrorIs(t, err, domain.ErrIdP)

	local, _ := repo.FindByID(u.ID)
	assert.Equal(t, "ana", local.Username)
}

func TestUpdateSelf_NoPermiteCambiarUsername(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)

	_, err := uc.UpdateSelf(context.Background(), "ana", identity.UpdateFields{Username: "otra"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateSelf_ActualizaNombre(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)

	updated, err := uc.UpdateSelf(context.Background(), "ana", identity.UpdateFields{FirstName: "Ana", LastName: "García"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.FirstName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Promote / Demote
// ──────────────────────────────────────────────────────────────────────────────

func TestPromote_CambiaRolEnAmbosLados(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)

	updated, err := uc.Promote(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleManager, updated.Role)
	assert.Equal(t, entity.RoleManager, idp.roles[u.ExternalID])
}

func TestPromote_MismoRolFallaConInvalidTransition(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "jefa", entity.RoleManager, true)

	_, err := uc.Promote(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidRoleTransition)
}

func TestDemote_UltimoManagerFalla(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "jefa", entity.RoleManager, true)

	_, err := uc.Demote(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Cannot demote the last manager")

	local, _ := repo.FindByID(u.ID)
	assert.Equal(t, entity.RoleManager, local.Role)
}

func TestDemote_ConOtroManagerActivoFunciona(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "jefa", entity.RoleManager, true)
	seedUser(t, idp, repo, "jefe2", entity.RoleManager, true)

	updated, err := uc.Demote(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEmployee, updated.Role)
}

func TestDemote_ManagerInactivoNoCuentaParaLaRegla(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "jefa", entity.RoleManager, true)
	seedUser(t, idp, repo, "exjefe", entity.RoleManager, false)

	_, err := uc.Demote(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChangeRole_UsuarioInexistenteFallaConNotFound(t *testing.T) {
	uc, _, _ := newIdentityFixture()

	_, err := uc.Promote(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Deactivate
// ──────────────────────────────────────────────────────────────────────────────

func TestDeactivate_BorraEnIdPYMarcaInactivo(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "ana", entity.RoleEmployee, true)

	require.NoError(t, uc.Deactivate(context.Background(), u.ID))

	local, _ := repo.FindByID(u.ID)
	assert.False(t, local.Active, "la fila local se conserva pero inactiva")
	assert.NotContains(t, idp.users, u.ExternalID)
}

func TestDeactivate_UltimoManagerFalla(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "jefa", entity.RoleManager, true)

	err := uc.Deactivate(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Cannot deactivate the last manager")

	local, _ := repo.FindByID(u.ID)
	assert.True(t, local.Active)
}

func TestDeactivate_YaInactivoFalla(t *testing.T) {
	uc, idp, repo := newIdentityFixture()
	u := seedUser(t, idp, repo, "ana", entity.RoleEmployee, false)

	err := uc.Deactivate(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}
