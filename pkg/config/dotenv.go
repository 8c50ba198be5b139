package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/matzehuels/tfdiagram/pkg/errors"
)

// EnvFileName is the dotenv file looked up at the project root.
const EnvFileName = ".env"

// FindEnvFile returns root/.env if it exists, or "".
func FindEnvFile(root string) string {
	p := filepath.Join(root, EnvFileName)
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return p
	}
	return ""
}

// ReadEnvFile parses a dotenv file into KEY=VALUE entries sorted by key.
// The entries are meant for child processes; the current process
// environment is left untouched. An empty path yields no entries.
func ReadEnvFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read env file %s", path)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, len(keys))
	for i, k := range keys {
		env[i] = k + "=" + vars[k]
	}
	return env, nil
}
