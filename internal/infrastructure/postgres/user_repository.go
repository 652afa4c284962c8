package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LeChef318/warehouse-app/internal/domain"
	"github.com/LeChef318/warehouse-app/internal/domain/entity"
	"github.com/LeChef318/warehouse-app/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, external_id, username, first_name, last_name, role, active`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Username duplicado -> UsernameConflictError.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (external_id, username, first_name, last_name, role, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		user.ExternalID, user.Username, user.FirstName, user.LastName, user.Role, user.Active,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.UsernameConflictError{Username: user.Username}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update actualiza un usuario existente.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET external_id = $2, username = $3, first_name = $4, last_name = $5, role = $6, active = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.ExternalID, user.Username, user.FirstName, user.LastName, user.Role, user.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.UsernameConflictError{Username: user.Username}
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID. Devuelve nil si no existe.
func (r *UserRepo) FindByID(id int64) (*entity.User, error) {
	return r.findOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByUsername obtiene un usuario por username. Devuelve nil si no existe.
func (r *UserRepo) FindByUsername(username string) (*entity.User, error) {
	return r.findOne(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByExternalID obtiene un usuario por su identificador del IdP. Devuelve nil si no existe.
func (r *UserRepo) FindByExternalID(externalID string) (*entity.User, error) {
	return r.findOne(`SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
}

func (r *UserRepo) findOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.ExternalID, &u.Username, &u.FirstName, &u.LastName, &u.Role, &u.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// FindAll lista todos los usuarios, activos o no.
func (r *UserRepo) FindAll() ([]*entity.User, error) {
	return r.findMany(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
}

// FindAllActive lista solo los usuarios activos.
func (r *UserRepo) FindAllActive() ([]*entity.User, error) {
	return r.findMany(`SELECT ` + userColumns + ` FROM users WHERE active ORDER BY id`)
}

func (r *UserRepo) findMany(query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.ExternalID, &u.Username, &u.FirstName, &u.LastName, &u.Role, &u.Active); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// ExistsByUsername indica si ya existe un usuario con ese username.
func (r *UserRepo) ExistsByUsername(username string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists user by username: %w", err)
	}
	return exists, nil
}

// ExistsByRole indica si existe algún usuario con el rol dado (activo o no).
func (r *UserRepo) ExistsByRole(role string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`, role).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists user by role: %w", err)
	}
	return exists, nil
}

// CountActiveByRole cuenta usuarios activos con el rol dado. Con forUpdate
// bloquea las filas contadas para que la regla del último manager no sufra
// TOCTOU frente a demote/deactivate concurrentes.
func (r *UserRepo) CountActiveByRole(role string, forUpdate bool) (int64, error) {
	query := `SELECT count(*) FROM users WHERE role = $1 AND active`
	if forUpdate {
		query = `SELECT count(*) FROM (SELECT id FROM users WHERE role = $1 AND active FOR UPDATE) locked`
	}
	var n int64
	if err := r.q.QueryRow(context.Background(), query, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active users by role: %w", err)
	}
	return n, nil
}
