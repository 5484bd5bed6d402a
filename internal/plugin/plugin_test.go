package plugin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/riptide-xdebug/internal/config"
	"github.com/CodexForgeBR/riptide-xdebug/internal/engine/enginetest"
	"github.com/CodexForgeBR/riptide-xdebug/internal/logging"
	"github.com/CodexForgeBR/riptide-xdebug/internal/xdebug"
)

func init() {
	color.NoColor = true
}

const projectDocument = `
project:
  name: shop
  app:
    services:
      www:
        image: riptide/php:8.2
        roles: [php]
      db:
        image: mariadb:10
    commands:
      php:
        image: riptide/php-cli:8.2
`

type pluginFixture struct {
	plugin *XdebugPlugin
	engine *enginetest.Fake
	root   *cobra.Command
	out    *bytes.Buffer
	cfg    *config.Config
}

func newPluginFixture(t *testing.T) *pluginFixture {
	t.Helper()
	t.Setenv("RIPTIDE_XDEBUG_VERSION", "")
	logging.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
	t.Cleanup(func() { logging.SetOutput(nil, nil) })

	dir := t.TempDir()
	path := filepath.Join(dir, "riptide.yml")
	require.NoError(t, os.WriteFile(path, []byte(projectDocument), 0644))

	cfg := config.NewDefaultConfig()
	cfg.ProjectPath = path

	f := &pluginFixture{
		engine: &enginetest.Fake{
			Labels: map[string]map[string]string{
				"riptide/php:8.2": {"riptide_xdebug_version": "3"},
			},
		},
		out: &bytes.Buffer{},
		cfg: cfg,
	}
	f.plugin = New(cfg, false)
	f.root = &cobra.Command{Use: "riptide-xdebug", SilenceUsage: true, SilenceErrors: true}
	f.root.SetOut(f.out)

	f.plugin.OnEngineReady(f.engine)
	f.plugin.OnCliReady(f.root)
	return f
}

func (f *pluginFixture) execute(args ...string) error {
	f.root.SetArgs(args)
	return f.root.Execute()
}

func TestOnCliReadyRegistersCommands(t *testing.T) {
	f := newPluginFixture(t)

	cmd, _, err := f.root.Find([]string{"xdebug"})
	require.NoError(t, err)
	assert.Equal(t, "xdebug", cmd.Name())
	assert.True(t, f.root.ContainsGroup("php"))

	cmd, _, err = f.root.Find([]string{"xdebug-flag"})
	require.NoError(t, err)
	assert.Equal(t, "xdebug-flag", cmd.Name())
}

func TestXdebugCommandStatus(t *testing.T) {
	f := newPluginFixture(t)

	require.NoError(t, f.execute("xdebug"))

	out := f.out.String()
	assert.Contains(t, out, "Xdebug status for shop: Disabled.")
	assert.Contains(t, out, "Version:          3")
}

func TestXdebugCommandEnableRestartsPHPService(t *testing.T) {
	f := newPluginFixture(t)
	f.engine.Running = []string{"www", "db"}

	require.NoError(t, f.execute("xdebug", "on", "--config", "log=/tmp/x.log,log_level=10"))

	require.Equal(t, []enginetest.Call{
		{Op: "stop", Services: []string{"www"}},
		{Op: "start", Services: []string{"www"}, Quick: true},
	}, f.engine.Calls)
	assert.Contains(t, f.out.String(), "Enabled")
	assert.Contains(t, f.out.String(), "log=/tmp/x.log, log_level=10")
}

func TestXdebugCommandInvalidConfig(t *testing.T) {
	f := newPluginFixture(t)

	err := f.execute("xdebug", "on", "--config", "badentry")
	require.Error(t, err)
	assert.ErrorIs(t, err, xdebug.ErrInvalidParameter)
}

func TestXdebugCommandRejectsExtraArgs(t *testing.T) {
	f := newPluginFixture(t)
	assert.Error(t, f.execute("xdebug", "on", "off"))
}

func TestReloadUsesReloadSettings(t *testing.T) {
	f := newPluginFixture(t)
	f.engine.Running = []string{"www"}

	reloaded := *f.cfg
	reloaded.StateFile = ".xdebug-reloaded.json"
	calls := 0
	f.plugin.ReloadSettings = func() (*config.Config, error) {
		calls++
		return &reloaded, nil
	}

	require.NoError(t, f.execute("xdebug", "on"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, ".xdebug-reloaded.json", f.plugin.store.FileName)
}

func TestFlagValue(t *testing.T) {
	f := newPluginFixture(t)
	require.NoError(t, f.execute("xdebug", "on", "--mode", "trace", "--request-trigger"))

	p, err := f.plugin.LoadProject()
	require.NoError(t, err)
	ctx := context.Background()

	v, err := f.plugin.FlagValue(ctx, p, "enabled")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = f.plugin.FlagValue(ctx, p, "mode")
	require.NoError(t, err)
	assert.Equal(t, "trace", v)

	v, err = f.plugin.FlagValue(ctx, p, "request_trigger")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = f.plugin.FlagValue(ctx, p, "version")
	require.NoError(t, err)
	assert.Equal(t, xdebug.Version3, v)

	_, err = f.plugin.FlagValue(ctx, p, "nonsense")
	assert.ErrorIs(t, err, ErrUnknownFlag)

	v, err = f.plugin.FlagValue(ctx, nil, "enabled")
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestFlagCommand(t *testing.T) {
	f := newPluginFixture(t)
	require.NoError(t, f.execute("xdebug", "--config", "b=2,a=1"))
	f.out.Reset()

	require.NoError(t, f.execute("xdebug-flag", "parameters"))
	assert.Equal(t, "b=2\na=1\n", f.out.String())

	f.out.Reset()
	require.NoError(t, f.execute("xdebug-flag", "enabled"))
	assert.Equal(t, "false\n", f.out.String())
}

func TestLoadProjectSearchesUpwards(t *testing.T) {
	f := newPluginFixture(t)
	dir := filepath.Dir(f.cfg.ProjectPath)
	nested := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(nested, 0755))
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	f.cfg.ProjectPath = ""
	p, err := f.plugin.LoadProject()
	require.NoError(t, err)
	assert.Equal(t, "shop", p.Name)
	assert.Equal(t, filepath.Join(dir, "_riptide"), p.MetaDir)
}

func TestOnConfigReloadedUpdatesDetectorSettings(t *testing.T) {
	f := newPluginFixture(t)
	f.plugin.interactive = true

	cfg := config.NewDefaultConfig()
	cfg.VersionEnv = "MY_XDEBUG"
	cfg.VersionLabel = "my_label"
	cfg.DefaultVersion = "3"
	cfg.NonInteractive = true
	f.plugin.OnConfigReloaded(cfg)

	d := f.plugin.detector
	assert.Equal(t, "MY_XDEBUG", d.EnvVar)
	assert.Equal(t, "my_label", d.Label)
	assert.Equal(t, xdebug.Version3, d.Default)
	assert.False(t, d.Interactive, "settings can silence the warning")

	cfg.NonInteractive = false
	f.plugin.OnConfigReloaded(cfg)
	assert.True(t, d.Interactive)
}
