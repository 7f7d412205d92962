package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("schema", "", "")
	fs.String("table", "", "")
	fs.String("model", "", "")
	fs.String("index", "", "")
	fs.Bool("verbose", false, "")
	fs.String("log-format", "", "")
	fs.String("dotenv", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Table:     "onetable",
		Index:     "primary",
		LogFormat: LogText,
		DotEnv:    ".env",
	}, cfg)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, DefaultConfigFile, "schema: from-file.yaml\ntable: FileTable\nmodel: User\nlog_format: json\n")
	t.Setenv("OTEXPR_TABLE", "EnvTable")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--model", "Order", "--log-format", "text"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-file.yaml", cfg.Schema)
	assert.Equal(t, "EnvTable", cfg.Table)
	assert.Equal(t, "Order", cfg.Model)
	assert.Equal(t, LogText, cfg.LogFormat)
	// unchanged flags do not override
	assert.Equal(t, "primary", cfg.Index)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "index: gs1\nverbose: true\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "gs1", cfg.Index)
	assert.True(t, cfg.Verbose)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	// registered with t.Setenv so the test restores it after godotenv sets it
	t.Setenv("OTEXPR_MODEL", "")
	os.Unsetenv("OTEXPR_MODEL")

	writeFile(t, ".env", "OTEXPR_MODEL=FromDotEnv\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "FromDotEnv", cfg.Model)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OTEXPR_MODEL", "FromEnv")
	writeFile(t, ".env", "OTEXPR_MODEL=FromDotEnv\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Model)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("log format", func(t *testing.T) {
		t.Setenv("OTEXPR_LOG_FORMAT", "xml")
		_, err := Load("", nil)
		assert.ErrorContains(t, err, "invalid log format")
	})

	t.Run("empty table", func(t *testing.T) {
		flags := testFlags()
		require.NoError(t, flags.Parse([]string{"--table", ""}))
		_, err := Load("", flags)
		assert.ErrorContains(t, err, "table name is required")
	})
}
