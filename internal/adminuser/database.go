package adminuser

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	errMissingDatabase   = errors.New("DB_DATABASE or DATABASE_URL must be set")
	errUnsupportedDriver = errors.New("only the pgsql connection is supported")
)

// DatabaseConfig holds connection settings read from the environment
type DatabaseConfig struct {
	URL        string
	Connection string
	Host       string
	Port       string
	Database   string
	Username   string
	Password   string
	SSLMode    string
}

// DatabaseConfigFromEnv reads DATABASE_URL and the DB_* variables
func DatabaseConfigFromEnv(getenv func(string) string) DatabaseConfig {
	return DatabaseConfig{
		URL:        getenv("DATABASE_URL"),
		Connection: getenv("DB_CONNECTION"),
		Host:       valueOr(getenv("DB_HOST"), "127.0.0.1"),
		Port:       valueOr(getenv("DB_PORT"), "5432"),
		Database:   getenv("DB_DATABASE"),
		Username:   getenv("DB_USERNAME"),
		Password:   getenv("DB_PASSWORD"),
		SSLMode:    valueOr(getenv("DB_SSLMODE"), "disable"),
	}
}

// DSN builds a postgres connection URL. DATABASE_URL wins when set.
func (c DatabaseConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	if c.Connection != "" && c.Connection != "pgsql" {
		return "", fmt.Errorf("%w: %q", errUnsupportedDriver, c.Connection)
	}

	if c.Database == "" {
		return "", errMissingDatabase
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}

	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}

	return u.String(), nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
