package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LeChef318/warehouse-app/pkg/config"
)

// ddl esquema completo de la aplicación. Idempotente: el arranque lo ejecuta
// en cada inicio. El par (product_id, warehouse_id) es único a nivel de
// storage; las cantidades nunca bajan de cero ni las de auditoría de uno.
const ddl = `
CREATE TABLE IF NOT EXISTS users (
	id          BIGSERIAL PRIMARY KEY,
	external_id TEXT NOT NULL DEFAULT '',
	username    TEXT NOT NULL UNIQUE,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL,
	active      BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS categories (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL CHECK (price > 0),
	category_id BIGINT NOT NULL REFERENCES categories(id)
);

CREATE TABLE IF NOT EXISTS warehouses (
	id       BIGSERIAL PRIMARY KEY,
	name     TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS stocks (
	id           BIGSERIAL PRIMARY KEY,
	product_id   BIGINT NOT NULL REFERENCES products(id),
	warehouse_id BIGINT NOT NULL REFERENCES warehouses(id),
	quantity     INTEGER NOT NULL CHECK (quantity >= 0),
	UNIQUE (product_id, warehouse_id)
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id                  BIGSERIAL PRIMARY KEY,
	user_id             BIGINT NOT NULL REFERENCES users(id),
	action              TEXT NOT NULL CHECK (action IN ('ADD','REMOVE','TRANSFER')),
	product_id          BIGINT NOT NULL REFERENCES products(id),
	warehouse_id        BIGINT NOT NULL REFERENCES warehouses(id),
	target_warehouse_id BIGINT REFERENCES warehouses(id),
	quantity            INTEGER NOT NULL CHECK (quantity > 0),
	"timestamp"         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs ("timestamp" DESC);
`

// EnsureSchema fase 1 del arranque: con credenciales administrativas garantiza
// que existan la base, el rol de aplicación, el esquema y los privilegios CRUD.
// Cualquier fallo aquí aborta el arranque.
func EnsureSchema(ctx context.Context, cfg config.DBConfig) error {
	// Paso 1: base de datos y rol, contra la base de mantenimiento.
	admin, err := pgx.Connect(ctx, cfg.AdminDSN("postgres"))
	if err != nil {
		return fmt.Errorf("conectar como admin: %w", err)
	}
	defer admin.Close(ctx)

	var exists bool
	err = admin.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("verificar base de datos: %w", err)
	}
	if !exists {
		// CREATE DATABASE no admite parámetros; el nombre viene de configuración.
		if _, err := admin.Exec(ctx, fmt.Sprintf(`CREATE DATABASE %s`, pgx.Identifier{cfg.DBName}.Sanitize())); err != nil {
			return fmt.Errorf("crear base de datos %s: %w", cfg.DBName, err)
		}
	}

	err = admin.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)`, cfg.User).Scan(&exists)
	if err != nil {
		return fmt.Errorf("verificar rol de aplicación: %w", err)
	}
	if !exists {
		stmt := fmt.Sprintf(`CREATE ROLE %s LOGIN PASSWORD '%s'`,
			pgx.Identifier{cfg.User}.Sanitize(), escapeLiteral(cfg.Password))
		if _, err := admin.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("crear rol de aplicación %s: %w", cfg.User, err)
		}
	}

	// Paso 2: esquema y privilegios, contra la base de la aplicación.
	appDB, err := pgx.Connect(ctx, cfg.AdminDSN(cfg.DBName))
	if err != nil {
		return fmt.Errorf("conectar a %s como admin: %w", cfg.DBName, err)
	}
	defer appDB.Close(ctx)

	if _, err := appDB.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}

	appRole := pgx.Identifier{cfg.User}.Sanitize()
	grants := []string{
		fmt.Sprintf(`GRANT USAGE ON SCHEMA public TO %s`, appRole),
		fmt.Sprintf(`GRANT SELECT, INSERT, UPDATE, DELETE ON ALL TABLES IN SCHEMA public TO %s`, appRole),
		fmt.Sprintf(`GRANT USAGE, SELECT ON ALL SEQUENCES IN SCHEMA public TO %s`, appRole),
	}
	for _, g := range grants {
		if _, err := appDB.Exec(ctx, g); err != nil {
			return fmt.Errorf("otorgar privilegios: %w", err)
		}
	}
	return nil
}

// escapeLiteral duplica comillas simples para literales dentro de DDL que no
// admite parámetros (CREATE ROLE ... PASSWORD).
func escapeLiteral(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' {
			out = append(out, '\'')
		}
		out = append(out, r)
	}
	return string(out)
}
