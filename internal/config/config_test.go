package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

const minimalYAML = `
app:
  frontend_url: http://localhost:5173
mongo:
  uri: mongodb://localhost:27017
  database: taskhub
jwt:
  secret: test-secret
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5000, cfg.App.Port)
	assert.Equal(t, "taskhub", cfg.Mongo.Database)
	assert.Equal(t, time.Hour, cfg.VerificationTTL)
	assert.Equal(t, 15*time.Minute, cfg.ResetPasswordTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.DispatchTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("MONGO_URI", "mongodb://db:27017")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, `
app:
  frontend_url: http://localhost:5173
mongo:
  uri: mongodb://localhost:27017
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
