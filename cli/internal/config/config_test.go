package config

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	original := AppFs
	AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { AppFs = original })
	return AppFs
}

func TestLoadConfig_File(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("DATABASE_URL", "")

	content := "database_url: sqlite://./dev.db\nprovider: sqlite\narray_suffix: \"--\"\nformat: dump\n"
	require.NoError(t, afero.WriteFile(fs, "/etc/qs/config.yaml", []byte(content), 0644))

	cfg, err := LoadConfig("/etc/qs/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sqlite://./dev.db", cfg.DatabaseURL)
	assert.Equal(t, "sqlite", cfg.Provider)
	assert.Equal(t, "__", cfg.Separator)
	assert.Equal(t, "--", cfg.ArraySuffix)
	assert.Equal(t, "dump", cfg.Format)
	assert.Equal(t, "/etc/qs/config.yaml", cfg.File)
}

func TestLoadConfig_Defaults(t *testing.T) {
	useMemFs(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/db")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/db", cfg.DatabaseURL)
	assert.Equal(t, "__", cfg.Separator)
	assert.Equal(t, "[]", cfg.ArraySuffix)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	useMemFs(t)
	t.Setenv("QS_SEPARATOR", ".")
	t.Setenv("QS_DEBUG", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Separator)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_EnvFiles(t *testing.T) {
	fs := useMemFs(t)
	t.Setenv("DATABASE_URL", "")
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("QS_FROM_DOTENV")
	})
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("QS_FROM_DOTENV")

	require.NoError(t, afero.WriteFile(fs, ".env", []byte("DATABASE_URL=file:base.db\nQS_FROM_DOTENV=yes\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("DATABASE_URL=file:local.db\n"), 0644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "file:local.db", cfg.DatabaseURL)
	assert.Equal(t, "yes", os.Getenv("QS_FROM_DOTENV"))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	useMemFs(t)

	want := &Config{
		DatabaseURL: "mysql://u:p@localhost:3306/db",
		Provider:    "mysql",
		Separator:   ".",
		ArraySuffix: "[]",
		Format:      "json",
	}
	path, err := SaveConfig(want, "/tmp/qs.yaml")
	require.NoError(t, err)

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want.DatabaseURL, got.DatabaseURL)
	assert.Equal(t, want.Provider, got.Provider)
	assert.Equal(t, want.Separator, got.Separator)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	useMemFs(t)

	_, err := LoadConfig("/nope.yaml")
	assert.Error(t, err)
}
