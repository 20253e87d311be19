// Package config resolves runtime settings: .env files, the storage target
// and the per-user config directory.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/keyring"
	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/storage"
	"github.com/julianstephens/routinelog/internal/storage/postgres"
	"github.com/julianstephens/routinelog/internal/storage/sqlite"
	"github.com/julianstephens/routinelog/internal/utils"
)

type Config struct {
	// DB is a SQLite file path or a PostgreSQL connection string. Empty means
	// the keyring DSN when one is stored, otherwise the default file.
	DB            string
	Debug         bool
	SessionSecret string
	ConfigDir     string
	// Timezone is an IANA name deciding what "today" is. Empty or "Local"
	// means the system zone.
	Timezone string
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are skipped.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the home directory.
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

// ResolveConfigDir returns the expanded config directory.
func (c Config) ResolveConfigDir() (string, error) {
	dir := c.ConfigDir
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	return ExpandPath(dir)
}

// Target returns the storage target after applying the keyring fallback.
func (c Config) Target() (string, error) {
	if c.DB != "" {
		return c.DB, nil
	}
	connStr, err := keyring.GetConnectionString()
	if err == nil {
		logger.Debug("Using connection string from keyring")
		return connStr, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("Keyring unavailable", "error", err)
	}
	dir, err := c.ResolveConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.AppName+".db"), nil
}

// OpenProvider builds the provider for the resolved target. Connection
// strings given on the command line or in the environment must not embed a
// password; the keyring may hold one.
func (c Config) OpenProvider() (storage.Provider, error) {
	target, err := c.Target()
	if err != nil {
		return nil, err
	}

	if postgres.IsConnString(target) {
		if c.DB != "" {
			if _, err := postgres.ValidateConnString(target); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w: store it with 'routinelog keyring set' or use ~/.pgpass", err)
				}
				return nil, err
			}
		}
		return postgres.New(target), nil
	}

	path, err := ExpandPath(target)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// ResolveSessionSecret returns the configured signing key, or else this
// install's generated one. The generated key lives in the OS keyring, or in
// a 0600 file under the config dir when there is no keyring. It fails when
// neither can hold a key.
func (c Config) ResolveSessionSecret() (string, error) {
	if c.SessionSecret != "" {
		return c.SessionSecret, nil
	}

	secret, err := keyring.GetSessionSecret()
	if err == nil {
		return secret, nil
	}
	keyringUsable := errors.Is(err, keyring.ErrNotFound)
	if !keyringUsable {
		logger.Debug("Keyring unavailable for session secret", "error", err)
	}

	dir, err := c.ResolveConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, constants.SessionSecretFile)
	secret, err = readSecretFile(path)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	secret, err = newSecret()
	if err != nil {
		return "", err
	}
	if keyringUsable {
		err := keyring.SetSessionSecret(secret)
		if err == nil {
			return secret, nil
		}
		logger.Debug("Failed to store session secret in keyring", "error", err)
	}
	if err := writeSecretFile(path, secret); err != nil {
		return "", fmt.Errorf("no place to keep the session secret: %w", err)
	}
	return secret, nil
}

func newSecret() (string, error) {
	b := make([]byte, constants.SessionSecretSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// readSecretFile refuses a key file other users can read.
func readSecretFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Mode().Perm()&0o077 != 0 {
		return "", fmt.Errorf("session secret file %s must not be accessible by other users (mode %v)", path, info.Mode().Perm())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("session secret file %s is empty", path)
	}
	return secret, nil
}

func writeSecretFile(path, secret string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(secret + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Clock returns a clock reading the current time in the configured zone.
func (c Config) Clock() (func() time.Time, error) {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}
