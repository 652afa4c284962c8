package startup_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/application/startup"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/pkg/config"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeIdP struct {
	users     map[string]identity.IdPUser
	roles     map[string]string
	nextID    int
	available bool
	rolesOK   bool
	deleted   []string
}

func newFakeIdP() *fakeIdP {
	return &fakeIdP{
		users:     make(map[string]identity.IdPUser),
		roles:     make(map[string]string),
		available: true,
		rolesOK:   true,
	}
}

func (f *fakeIdP) addUser(username, role string) string {
	f.nextID++
	id := fmt.Sprintf("ext-%d", f.nextID)
	f.users[id] = identity.IdPUser{ID: id, Username: username, Enabled: true}
	f.roles[id] = role
	return id
}

func (f *fakeIdP) CreateUser(ctx context.Context, username, password, role, firstName, lastName string) (string, error) {
	return f.addUser(username, role), nil
}

func (f *fakeIdP) UpdateUser(ctx context.Context, externalID, newUsername, newPassword, newFirstName, newLastName string) error {
	return nil
}

func (f *fakeIdP) SetRole(ctx context.Context, externalID, role string) error {
	f.roles[externalID] = role
	return nil
}

func (f *fakeIdP) DeleteUser(ctx context.Context, externalID string) error {
	delete(f.users, externalID)
	f.deleted = append(f.deleted, externalID)
	return nil
}

func (f *fakeIdP) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	id, _ := f.FindIDByUsername(ctx, username)
	return id != "", nil
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
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeIdP) PrimaryRole(ctx context.Context, externalID string) (string, error) {
	return f.roles[externalID], nil
}

func (f *fakeIdP) Available(ctx context.Context) bool { return f.available }

func (f *fakeIdP) RequiredRolesExist(ctx context.Context) (bool, error) { return f.rolesOK, nil }

type fakeUserRepo struct {
	users      map[int64]*entity.User
	nextID     int64
	failCreate error
	updates    int
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
	r.updates++
	c := *u
	r.users[u.ID] = &c
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

var adminCfg = config.AdminConfig{Username: "admin", Password: "admin123", FirstName: "Admin", LastName: "Istrator"}

func newCoordinator(idp *fakeIdP, repo *fakeUserRepo) *startup.Coordinator {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return startup.NewCoordinator(idp, repo, adminCfg, log)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sincronización de usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestSync_InsertaUsuariosNuevosDelIdP(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	extID := idp.addUser("ana", entity.RoleEmployee)
	idp.addUser("admin", entity.RoleManager)

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, err := repo.FindByExternalID(extID)
	require.NoError(t, err)
	require.NotNil(t, local)
	assert.Equal(t, "ana", local.Username)
	assert.Equal(t, entity.RoleEmployee, local.Role)
	assert.True(t, local.Active)
}

func TestSync_RefrescaUsernameRolYActivo(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	extID := idp.addUser("ana.nueva", entity.RoleManager)
	require.NoError(t, repo.Create(&entity.User{ExternalID: extID, Username: "ana", Role: entity.RoleEmployee, Active: false}))

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByExternalID(extID)
	assert.Equal(t, "ana.nueva", local.Username)
	assert.Equal(t, entity.RoleManager, local.Role)
	assert.True(t, local.Active)
}

func TestSync_SinRolReconocidoQuedaComoEmployee(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	extID := idp.addUser("ana", "")
	idp.addUser("admin", entity.RoleManager)

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByExternalID(extID)
	assert.Equal(t, entity.RoleEmployee, local.Role)
}

func TestSync_DesactivaLocalesHuerfanos(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	idp.addUser("admin", entity.RoleManager)
	require.NoError(t, repo.Create(&entity.User{ExternalID: "ext-borrado", Username: "viejo", Role: entity.RoleEmployee, Active: true}))

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByExternalID("ext-borrado")
	assert.False(t, local.Active)
}

func TestSync_HuerfanoYaInactivoNoSeReescribe(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	idp.addUser("admin", entity.RoleManager)
	require.NoError(t, repo.Create(&entity.User{ExternalID: "ext-borrado", Username: "viejo", Role: entity.RoleEmployee, Active: false}))

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByExternalID("ext-borrado")
	assert.False(t, local.Active)
	assert.Zero(t, repo.updates, "solo los locales activos son candidatos a desactivación")
}

func TestSync_NoTocaLocalesSinExternalID(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	idp.addUser("admin", entity.RoleManager)
	require.NoError(t, repo.Create(&entity.User{Username: "manual", Role: entity.RoleEmployee, Active: true}))

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByUsername("manual")
	assert.True(t, local.Active)
}

func TestSync_IdPCaidoSeOmiteSinError(t *testing.T) {
	idp := newFakeIdP()
	idp.available = false
	repo := newFakeUserRepo()
	// Con un manager local el bootstrap también se omite
	require.NoError(t, repo.Create(&entity.User{ExternalID: "x", Username: "jefa", Role: entity.RoleManager, Active: true}))

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))
	all, _ := repo.FindAll()
	assert.Len(t, all, 1)
}

func TestSync_EsIdempotente(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	idp.addUser("ana", entity.RoleEmployee)
	idp.addUser("admin", entity.RoleManager)
	coordinator := newCoordinator(idp, repo)

	require.NoError(t, coordinator.Run(context.Background()))
	first, _ := repo.FindAll()

	require.NoError(t, coordinator.Run(context.Background()))
	second, _ := repo.FindAll()

	assert.Equal(t, len(first), len(second), "la segunda corrida no debe cambiar nada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bootstrap del admin inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestBootstrap_CreaAdminCuandoNoHayManager(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByUsername("admin")
	require.NotNil(t, local)
	assert.Equal(t, entity.RoleManager, local.Role)
	assert.True(t, local.Active)
	assert.Equal(t, entity.RoleManager, idp.roles[local.ExternalID])
}

func TestBootstrap_SeOmiteSiYaHayManager(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(&entity.User{ExternalID: "x", Username: "jefa", Role: entity.RoleManager, Active: true}))

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByUsername("admin")
	assert.Nil(t, local, "no debe crearse otro admin")
}

func TestBootstrap_AdoptaCuentaExistenteYAseguraRol(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	extID := idp.addUser("admin", entity.RoleEmployee)

	require.NoError(t, newCoordinator(idp, repo).Run(context.Background()))

	local, _ := repo.FindByUsername("admin")
	require.NotNil(t, local)
	assert.Equal(t, extID, local.ExternalID, "debe adoptarse la cuenta existente")
	assert.Equal(t, entity.RoleManager, idp.roles[extID], "el rol MANAGER debe asignarse")
	assert.Empty(t, idp.deleted)
}

func TestBootstrap_IdPCaidoAbortaElArranque(t *testing.T) {
	idp := newFakeIdP()
	idp.available = false
	repo := newFakeUserRepo()

	err := newCoordinator(idp, repo).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial admin bootstrap")
}

func TestBootstrap_SinRolesRequeridosAborta(t *testing.T) {
	idp := newFakeIdP()
	idp.rolesOK = false
	repo := newFakeUserRepo()

	err := newCoordinator(idp, repo).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required realm roles")
}

func TestBootstrap_FalloLocalCompensaSoloSiLaCuentaEsNueva(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	repo.failCreate = errors.New("insert failed")

	err := newCoordinator(idp, repo).Run(context.Background())
	require.Error(t, err)
	require.Len(t, idp.deleted, 1, "la cuenta creada en esta corrida debe borrarse")
}

func TestBootstrap_FalloLocalNoCompensaCuentaAdoptada(t *testing.T) {
	idp := newFakeIdP()
	repo := newFakeUserRepo()
	idp.addUser("admin", entity.RoleManager)
	repo.failCreate = errors.New("insert failed")

	err := newCoordinator(idp, repo).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, idp.deleted, "una cuenta preexistente no debe borrarse")
}
