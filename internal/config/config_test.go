package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "C-Agent", cfg.Project.Name)
	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, 5, cfg.Scan.SampleSize)
	assert.Equal(t, 10, cfg.Scan.IncludeSampleSize)
	assert.Equal(t, []string{".c"}, cfg.Scan.Extensions.Source)
	assert.Equal(t, filepath.Join("reports", "agent_analysis.json"), cfg.JSONPath())
	assert.Equal(t, filepath.Join("reports", "task_summary.md"), cfg.SummaryPath())
	assert.False(t, cfg.Pipeline.Strict)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cagent.yaml")
	content := `
project:
  name: Firmware
  root: ./src
scan:
  workers: 3
  respect_gitignore: true
  skip_dirs: [".git", "build"]
  extensions:
    source: [".c", ".cc"]
report:
  output_dir: out
pipeline:
  strict: true
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Firmware", cfg.Project.Name)
	assert.Equal(t, "./src", cfg.Project.Root)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.True(t, cfg.Scan.RespectGitignore)
	assert.Equal(t, []string{".git", "build"}, cfg.Scan.SkipDirs)
	assert.Equal(t, []string{".c", ".cc"}, cfg.Scan.Extensions.Source)
	assert.Equal(t, []string{".h"}, cfg.Scan.Extensions.Header, "unset keys keep defaults")
	assert.Equal(t, filepath.Join("out", "agent_analysis.json"), cfg.JSONPath())
	assert.True(t, cfg.Pipeline.Strict)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CAGENT_PROJECT_NAME", "FromEnv")
	t.Setenv("CAGENT_SCAN_WORKERS", "7")

	path := filepath.Join(t.TempDir(), "cagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project:\n  name: FromFile\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Project.Name)
	assert.Equal(t, 7, cfg.Scan.Workers)
}

func TestLoadFromViperExpandsEnv(t *testing.T) {
	t.Setenv("CAGENT_TEST_ROOT", "/tmp/project")

	v := viper.New()
	v.Set("project.root", "${CAGENT_TEST_ROOT}/src")

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/project/src", cfg.Project.Root)
	assert.Equal(t, "C-Agent", cfg.Project.Name)
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyOverrides(Overrides{
		Root:             "/srv/code",
		OutputDir:        "/tmp/reports",
		LogLevel:         "warn",
		Workers:          2,
		RespectGitignore: true,
		Strict:           true,
		Addr:             ":9090",
	})

	assert.Equal(t, "/srv/code", cfg.Project.Root)
	assert.Equal(t, "C-Agent", cfg.Project.Name, "empty override keeps value")
	assert.Equal(t, "/tmp/reports", cfg.Report.OutputDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.True(t, cfg.Scan.RespectGitignore)
	assert.True(t, cfg.Pipeline.Strict)
	assert.Equal(t, ":9090", cfg.Dashboard.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty root", func(c *Config) { c.Project.Root = " " }, "project.root"},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }, "scan.workers"},
		{"zero sample", func(c *Config) { c.Scan.SampleSize = 0 }, "scan.sample_size"},
		{"zero include sample", func(c *Config) { c.Scan.IncludeSampleSize = -1 }, "scan.include_sample_size"},
		{"missing json file", func(c *Config) { c.Report.JSONFile = "" }, "report.json_file"},
		{"same file names", func(c *Config) { c.Report.SummaryFile = c.Report.JSONFile }, "must differ"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
