package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/LeChef318/warehouse-app/internal/application/identity"
	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/pkg/config"
	"github.com/LeChef318/warehouse-app/pkg/logger"
)

var _ identity.IdPClient = (*Client)(nil)

// tokenMargin se renueva el token de admin cuando le queda menos que esto.
const tokenMargin = 10 * time.Second

// Client cliente tipado sobre la API administrativa de Keycloak para el
// realm fijo de la aplicación. El token de admin (password grant contra
// master con admin-cli) se cachea y renueva bajo mutex.
type Client struct {
	baseURL       string
	realm         string
	adminUser     string
	adminPassword string
	http          *http.Client
	log           *logger.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient construye el cliente con timeout acotado en todas las llamadas.
func NewClient(cfg config.KeycloakConfig, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		realm:         cfg.Realm,
		adminUser:     cfg.AdminUser,
		adminPassword: cfg.AdminPassword,
		http:          &http.Client{Timeout: timeout},
		log:           log.Component("keycloak"),
	}
}

// userRepresentation forma JSON de un usuario en la API de administración.
type userRepresentation struct {
	ID            string `json:"id,omitempty"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Enabled       bool   `json:"enabled"`
	EmailVerified bool   `json:"emailVerified"`
}

// roleRepresentation forma JSON de un rol de realm.
type roleRepresentation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// credentialRepresentation credencial de password no temporal.
type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// httpError respuesta no-2xx de Keycloak con el cuerpo para diagnóstico.
type httpError struct {
	Status int
	Body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP Status: %d, Response: %s", e.Status, e.Body)
}

// adminToken devuelve un token de administración vigente, renovándolo si expiró.
func (c *Client) adminToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExp) > tokenMargin {
		return c.token, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {"admin-cli"},
		"username":   {c.adminUser},
		"password":   {c.adminPassword},
	}
	endpoint := c.baseURL + "/realms/master/protocol/openid-connect/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &httpError{Status: resp.StatusCode, Body: string(body)}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

// do ejecuta una llamada administrativa autenticada. path es relativo a
// /admin/realms/{realm}. Devuelve la respuesta sin cerrar; respuestas no-2xx
// se devuelven como *httpError con el cuerpo ya leído.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	token, err := c.adminToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	endpoint := c.baseURL + "/admin/realms/" + c.realm + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpError{Status: resp.StatusCode, Body: string(b)}
	}
	return resp, nil
}

// doJSON como do pero decodifica el cuerpo JSON en out y cierra la respuesta.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doDiscard como do pero descarta el cuerpo y cierra la respuesta.
func (c *Client) doDiscard(ctx context.Context, method, path string, body any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// CreateUser crea la cuenta habilitada, fija el password no temporal y
// asigna exactamente el rol pedido. Si password o rol fallan después de la
// creación, compensa borrando la cuenta parcial antes de devolver el error.
func (c *Client) CreateUser(ctx context.Context, username, password, role, firstName, lastName string) (string, error) {
	c.log.Info().Str("username", username).Msg("creating Keycloak user")

	rep := userRepresentation{
		Username:      username,
		FirstName:     firstName,
		LastName:      lastName,
		Enabled:       true,
		EmailVerified: true,
	}
	resp, err := c.do(ctx, http.MethodPost, "/users", rep)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) && he.Status == http.StatusConflict {
			return "", &domain.UsernameConflictError{Username: username}
		}
		return "", domain.NewIdPErr("user creation", err)
	}
	location := resp.Header.Get("Location")
	resp.Body.Close()

	userID := location[strings.LastIndex(location, "/")+1:]
	if userID == "" {
		return "", domain.NewIdPErr("user creation", fmt.Errorf("missing Location header in create response"))
	}

	// Password no temporal
	cred := credentialRepresentation{Type: "password", Value: password, Temporary: false}
	if err := c.doDiscard(ctx, http.MethodPut, "/users/"+userID+"/reset-password", cred); err != nil {
		c.rollbackCreate(ctx, userID, "password failure")
		return "", domain.NewIdPErr("password setting", err)
	}

	// Exactamente el rol pedido, a nivel de realm
	validRole := entity.RoleEmployee
	if role == entity.RoleManager {
		validRole = entity.RoleManager
	}
	if err := c.addRealmRole(ctx, userID, validRole); err != nil {
		c.rollbackCreate(ctx, userID, "role assignment failure")
		return "", domain.NewIdPErr("role assignment", err)
	}

	c.log.Info().Str("username", username).Str("external_id", userID).Msg("Keycloak user created")
	return userID, nil
}

// rollbackCreate borra la cuenta parcial tras un fallo posterior a la creación.
func (c *Client) rollbackCreate(ctx context.Context, userID, reason string) {
	if err := c.doDiscard(ctx, http.MethodDelete, "/users/"+userID, nil); err != nil {
		c.log.Error().Err(err).Str("external_id", userID).Msg("failed to roll back Keycloak user creation")
		return
	}
	c.log.Info().Str("external_id", userID).Str("reason", reason).Msg("rolled back Keycloak user creation")
}

func (c *Client) addRealmRole(ctx context.Context, userID, role string) error {
	var roleRep roleRepresentation
	if err := c.doJSON(ctx, http.MethodGet, "/roles/"+role, nil, &roleRep); err != nil {
		return err
	}
	return c.doDiscard(ctx, http.MethodPost, "/users/"+userID+"/role-mappings/realm", []roleRepresentation{roleRep})
}

// UpdateUser actualiza solo los campos no vacíos. El reset de password va
// por separado del resto de la representación. HTTP 409 -> conflicto de username.
func (c *Client) UpdateUser(ctx context.Context, externalID, newUsername, newPassword, newFirstName, newLastName string) error {
	var rep userRepresentation
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+externalID, nil, &rep); err != nil {
		return domain.NewIdPErr("user update", err)
	}

	updated := false
	if newUsername != "" {
		rep.Username = newUsername
		updated = true
	}
	if newFirstName != "" {
		rep.FirstName = newFirstName
		updated = true
	}
	if newLastName != "" {
		rep.LastName = newLastName
		updated = true
	}
	if updated {
		if err := c.doDiscard(ctx, http.MethodPut, "/users/"+externalID, rep); err != nil {
			var he *httpError
			if errors.As(err, &he) && he.Status == http.StatusConflict {
				return &domain.UsernameConflictError{Username: newUsername}
			}
			return domain.NewIdPErr("user update", err)
		}
	}

	if newPassword != "" {
		cred := credentialRepresentation{Type: "password", Value: newPassword, Temporary: false}
		if err := c.doDiscard(ctx, http.MethodPut, "/users/"+externalID+"/reset-password", cred); err != nil {
			return domain.NewIdPErr("password update", err)
		}
	}
	return nil
}

// SetRole quita todos los roles de realm actuales y añade exactamente el pedido.
func (c *Client) SetRole(ctx context.Context, externalID, role string) error {
	var current []roleRepresentation
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+externalID+"/role-mappings/realm", nil, &current); err != nil {
		return domain.NewIdPErr("role update", err)
	}
	if len(current) > 0 {
		if err := c.doDiscard(ctx, http.MethodDelete, "/users/"+externalID+"/role-mappings/realm", current); err != nil {
			return domain.NewIdPErr("role update", err)
		}
	}
	if err := c.addRealmRole(ctx, externalID, role); err != nil {
		return domain.NewIdPErr("role update", err)
	}
	return nil
}

// DeleteUser elimina la cuenta del IdP.
func (c *Client) DeleteUser(ctx context.Context, externalID string) error {
	if err := c.doDiscard(ctx, http.MethodDelete, "/users/"+externalID, nil); err != nil {
		return domain.NewIdPErr("user deletion", err)
	}
	return nil
}

// searchByUsername búsqueda exacta por username.
func (c *Client) searchByUsername(ctx context.Context, username string) ([]userRepresentation, error) {
	path := "/users?exact=true&username=" + url.QueryEscape(username)
	var users []userRepresentation
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ExistsByUsername indica si el IdP tiene una cuenta con ese username.
func (c *Client) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	users, err := c.searchByUsername(ctx, username)
	if err != nil {
		return false, domain.NewIdPErr("user existence check", err)
	}
	return len(users) > 0, nil
}

// FindIDByUsername devuelve el external id de la cuenta, o "" si no existe.
func (c *Client) FindIDByUsername(ctx context.Context, username string) (string, error) {
	users, err := c.searchByUsername(ctx, username)
	if err != nil {
		return "", domain.NewIdPErr("user ID lookup", err)
	}
	if len(users) == 0 {
		return "", nil
	}
	return users[0].ID, nil
}

// HasRole indica si la cuenta tiene el rol de realm dado.
func (c *Client) HasRole(ctx context.Context, externalID, role string) (bool, error) {
	roles, err := c.realmRoles(ctx, externalID)
	if err != nil {
		return false, domain.NewIdPErr("role check", err)
	}
	for _, r := range roles {
		if r.Name == role {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) realmRoles(ctx context.Context, externalID string) ([]roleRepresentation, error) {
	var roles []roleRepresentation
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+externalID+"/role-mappings/realm", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// ListAll devuelve todos los usuarios del realm, paginando de a 100.
func (c *Client) ListAll(ctx context.Context) ([]identity.IdPUser, error) {
	const pageSize = 100
	var all []identity.IdPUser
	for first := 0; ; first += pageSize {
		path := fmt.Sprintf("/users?first=%d&max=%d", first, pageSize)
		var batch []userRepresentation
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &batch); err != nil {
			return nil, domain.NewIdPErr("user listing", err)
		}
		for _, u := range batch {
			all = append(all, identity.IdPUser{
				ID:        u.ID,
				Username:  u.Username,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Enabled:   u.Enabled,
			})
		}
		if len(batch) < pageSize {
			return all, nil
		}
	}
}

// PrimaryRole devuelve MANAGER o EMPLOYEE, con MANAGER prioritario cuando el
// usuario tiene ambos; "" si no tiene ninguno de los dos.
func (c *Client) PrimaryRole(ctx context.Context, externalID string) (string, error) {
	roles, err := c.realmRoles(ctx, externalID)
	if err != nil {
		return "", domain.NewIdPErr("role retrieval", err)
	}
	primary := ""
	for _, r := range roles {
		switch r.Name {
		case entity.RoleManager:
			return entity.RoleManager, nil
		case entity.RoleEmployee:
			primary = entity.RoleEmployee
		}
	}
	return primary, nil
}

// Available sondea si el realm responde.
func (c *Client) Available(ctx context.Context) bool {
	if err := c.doDiscard(ctx, http.MethodGet, "", nil); err != nil {
		c.log.Warn().Err(err).Msg("Keycloak is not available")
		return false
	}
	return true
}

// RequiredRolesExist verifica que existan los roles de realm EMPLOYEE y MANAGER.
func (c *Client) RequiredRolesExist(ctx context.Context) (bool, error) {
	for _, role := range []string{entity.RoleEmployee, entity.RoleManager} {
		if err := c.doDiscard(ctx, http.MethodGet, "/roles/"+role, nil); err != nil {
			var he *httpError
			if errors.As(err, &he) && he.Status == http.StatusNotFound {
				c.log.Error().Str("role", role).Msg("required realm role does not exist")
				return false, nil
			}
			return false, domain.NewIdPErr("role verification", err)
		}
	}
	return true, nil
}
