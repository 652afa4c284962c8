package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	HTTP     HTTPConfig
	Keycloak KeycloakConfig
	Admin    AdminConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL. AdminUser/AdminPassword se usan solo
// en el arranque para crear base, rol de aplicación y esquema; el resto de la
// aplicación opera con User/Password.
type DBConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	AdminUser     string
	AdminPassword string
	DBName        string
	SSLMode       string
}

// DSN devuelve el connection string de la aplicación con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	return c.dsnFor(c.User, c.Password, c.DBName)
}

// AdminDSN devuelve el connection string con credenciales administrativas
// contra la base de mantenimiento indicada (normalmente "postgres").
func (c DBConfig) AdminDSN(dbName string) string {
	return c.dsnFor(c.AdminUser, c.AdminPassword, dbName)
}

func (c DBConfig) dsnFor(user, password, dbName string) string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + dbName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KeycloakConfig acceso administrativo al proveedor de identidad.
// Realm es el realm de la aplicación; el token de admin se obtiene contra master.
type KeycloakConfig struct {
	BaseURL       string
	Realm         string
	AdminUser     string
	AdminPassword string
	TimeoutSecs   int
}

// AdminConfig usuario manager inicial que el arranque garantiza.
type AdminConfig struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo .env).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, KEYCLOAK_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "warehouse-app"),
		},
		DB: DBConfig{
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "warehouse_app"),
			Password:      getString(v, "DB_PASSWORD", ""),
			AdminUser:     getString(v, "DB_ADMIN_USER", "postgres"),
			AdminPassword: getString(v, "DB_ADMIN_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "warehouse"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Keycloak: KeycloakConfig{
			BaseURL:       getString(v, "KEYCLOAK_BASE_URL", "http://localhost:8180"),
			Realm:         getString(v, "KEYCLOAK_REALM", "warehouse"),
			AdminUser:     getString(v, "KEYCLOAK_ADMIN_USER", ""),
			AdminPassword: getString(v, "KEYCLOAK_ADMIN_PASSWORD", ""),
			TimeoutSecs:   getInt(v, "KEYCLOAK_TIMEOUT_SECONDS", 10),
		},
		Admin: AdminConfig{
			Username:  getString(v, "APP_ADMIN_USERNAME", ""),
			Password:  getString(v, "APP_ADMIN_PASSWORD", ""),
			FirstName: getString(v, "APP_ADMIN_FIRSTNAME", ""),
			LastName:  getString(v, "APP_ADMIN_LASTNAME", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate exige las opciones sin default razonable antes de arrancar.
func (c *Config) validate() error {
	if c.Admin.Username == "" {
		return fmt.Errorf("admin username not configured: set APP_ADMIN_USERNAME")
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("admin password not configured: set APP_ADMIN_PASSWORD")
	}
	if c.Keycloak.AdminUser == "" || c.Keycloak.AdminPassword == "" {
		return fmt.Errorf("keycloak admin credentials not configured: set KEYCLOAK_ADMIN_USER and KEYCLOAK_ADMIN_PASSWORD")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
