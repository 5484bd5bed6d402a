package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
project:
  name: shop
  app:
    name: shop-app
    services:
      www:
        image: riptide/php:8.2
        roles: [php, main]
        environment:
          APP_ENV: dev
          WORKERS: 4
        env_files: [.env]
      db:
        image: mariadb:10
      worker:
        image: riptide/php:8.2
        roles: [php]
    commands:
      php:
        image: riptide/php-cli:8.2
        environment:
          RIPTIDE_XDEBUG_VERSION: "3"
      composer:
        image: composer:2
`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "riptide.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func names(objects []*Object) []string {
	var result []string
	for _, o := range objects {
		result = append(result, o.Name)
	}
	return result
}

func TestLoad(t *testing.T) {
	path := writeProject(t, sampleDocument)

	p, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "shop", p.Name)
	assert.Equal(t, filepath.Dir(path), p.Folder)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "_riptide"), p.MetaDir)
	assert.Equal(t, []string{"www", "db", "worker"}, names(p.Services), "services keep document order")
	assert.Equal(t, []string{"php", "composer"}, names(p.Commands), "commands keep document order")

	www := p.Services[0]
	assert.Equal(t, KindService, www.Kind)
	assert.Equal(t, "riptide/php:8.2", www.Image)
	assert.Equal(t, "4", www.Environment["WORKERS"])
	assert.Equal(t, KindCommand, p.Commands[0].Kind)
}

func TestLoadCustomMetaFolder(t *testing.T) {
	path := writeProject(t, sampleDocument)

	p, err := Load(path, "_meta")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "_meta"), p.MetaDir)
}

func TestLoadDefaultsNameToFolder(t *testing.T) {
	path := writeProject(t, "project:\n  app:\n    services:\n")

	p, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(filepath.Dir(path)), p.Name)
	assert.Empty(t, p.Services)
	assert.Empty(t, p.Commands)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "riptide.yml"), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("services is not a mapping", func(t *testing.T) {
		path := writeProject(t, "project:\n  app:\n    services: [a, b]\n")
		_, err := Load(path, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a mapping")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeProject(t, "project: [\n")
		_, err := Load(path, "")
		assert.Error(t, err)
	})
}

func TestServicesByRole(t *testing.T) {
	p, err := Load(writeProject(t, sampleDocument), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"www", "worker"}, names(p.ServicesByRole(RolePHP)))
	assert.Empty(t, p.ServicesByRole("varnish"))

	first := p.ServiceByRole(RolePHP)
	require.NotNil(t, first)
	assert.Equal(t, "www", first.Name)
	assert.Nil(t, p.ServiceByRole("varnish"))
}

func TestObjectsListsServicesThenCommands(t *testing.T) {
	p, err := Load(writeProject(t, sampleDocument), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"www", "db", "worker", "php", "composer"}, names(p.Objects()))
}

func TestEnvironment(t *testing.T) {
	path := writeProject(t, sampleDocument)
	require.NoError(t, os.WriteFile(
		filepath.Join(filepath.Dir(path), ".env"),
		[]byte("APP_ENV=prod\nFROM_FILE=yes\n"),
		0644,
	))

	p, err := Load(path, "")
	require.NoError(t, err)

	env, err := p.Environment(p.Services[0])
	require.NoError(t, err)
	assert.Equal(t, "dev", env["APP_ENV"], "explicit environment overrides env files")
	assert.Equal(t, "yes", env["FROM_FILE"])
	assert.Equal(t, "4", env["WORKERS"])

	env, err = p.Environment(p.Services[1])
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestEnvironmentMissingEnvFile(t *testing.T) {
	p, err := Load(writeProject(t, sampleDocument), "")
	require.NoError(t, err)

	_, err = p.Environment(p.Services[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service www")
}

func TestFind(t *testing.T) {
	path := writeProject(t, sampleDocument)
	nested := filepath.Join(filepath.Dir(path), "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := Find(nested, "riptide.yml")
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = Find(nested, "does-not-exist.yml")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
