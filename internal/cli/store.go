package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// PostgresKeyword selects PostgreSQL with the connection string taken from the environment or keyring.
const PostgresKeyword = "postgres"

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func isPostgresURL(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL or DSN carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	if isPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		_, set := u.User.Password()
		return set
	}
	for _, part := range strings.Fields(connStr) {
		if strings.HasPrefix(strings.ToLower(part), "password=") {
			return true
		}
	}
	return false
}

// ResolveConnectionString reads the PostgreSQL connection string from the environment, then the keyring.
// Stored strings may include a password since neither place is a config file.
func ResolveConnectionString() (string, error) {
	if connStr := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); connStr != "" {
		return connStr, nil
	}
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PostgreSQL connection string: set %s or run 'habitual keyring set'", constants.ConnectionEnvVar)
		}
		return "", err
	}
	return connStr, nil
}

// OpenStore picks the backend for --config and returns it with the directory that holds the lockfile.
//
//	postgres://... or postgresql://...  PostgreSQL, no password allowed
//	postgres                            PostgreSQL via HABITUAL_DB_CONNECTION or the keyring
//	*.json                              JSON file
//	anything else                       SQLite
func OpenStore(config string) (storage.Provider, string, error) {
	defaultDir, err := ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return nil, "", err
	}

	switch {
	case isPostgresURL(config):
		if HasEmbeddedCredentials(config) {
			return nil, "", fmt.Errorf("%w: use the OS keyring ('habitual keyring set'), %s or ~/.pgpass instead", postgres.ErrEmbeddedCredentials, constants.ConnectionEnvVar)
		}
		if _, err := postgres.ValidateConnString(config); err != nil {
			return nil, "", err
		}
		logger.Debug("Using PostgreSQL storage")
		return postgres.New(config), defaultDir, nil

	case strings.EqualFold(config, PostgresKeyword):
		connStr, err := ResolveConnectionString()
		if err != nil {
			return nil, "", err
		}
		logger.Debug("Using PostgreSQL storage from stored connection string")
		return postgres.New(connStr), defaultDir, nil
	}

	if config == "" {
		config = constants.DefaultDBPath
	}
	path, err := ExpandPath(config)
	if err != nil {
		return nil, "", err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		logger.Debug("Using JSON storage", "path", path)
		return storage.NewJSONStore(path), filepath.Dir(path), nil
	}
	logger.Debug("Using SQLite storage", "path", path)
	return sqlite.NewStore(path), filepath.Dir(path), nil
}
