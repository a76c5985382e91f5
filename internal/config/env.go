package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Env is a snapshot of environment variables. A key that is present with an
// empty value is still considered set.
type Env map[string]string

// EnvFromOS snapshots the process environment.
func EnvFromOS() Env {
	env := make(Env)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[k] = v
	}
	return env
}

// Lookup returns the value for key and whether it is present.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// LoadEnvFile reads a dotenv file and adds its variables to e. Variables
// already present in e are not overridden.
func (e Env) LoadEnvFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}
	for k, v := range vars {
		if _, ok := e[k]; !ok {
			e[k] = v
		}
	}
	return nil
}
