package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 是环境变量前缀，例如 CAGENT_SCAN_WORKERS。
const EnvPrefix = "CAGENT"

// DefaultConfigName 是在工作目录中查找的配置文件名。
const DefaultConfigName = "cagent"

// Load 依次叠加默认值、可选的 YAML 配置文件、可选的 .env 文件与 CAGENT_* 环境变量。
//
// 显式传入的 configPath 必须存在；configPath 为空时，工作目录下的 cagent.yaml 存在才读取。
func Load(configPath string) (*Config, error) {
	// .env 可选，不存在不算错误。
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper 从已有的 Viper 实例解析配置，路径类字段会展开环境变量。
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Project.Root = os.ExpandEnv(cfg.Project.Root)
	cfg.Report.OutputDir = os.ExpandEnv(cfg.Report.OutputDir)
	cfg.Logging.Output = os.ExpandEnv(cfg.Logging.Output)

	return cfg, nil
}

// newViper 创建 Viper 实例并为每个键注册默认值。
// AutomaticEnv 只对已知的键生效，Unmarshal 时才能读到 CAGENT_* 变量。
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("project.name", defaults.Project.Name)
	v.SetDefault("project.root", defaults.Project.Root)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("scan.sample_size", defaults.Scan.SampleSize)
	v.SetDefault("scan.include_sample_size", defaults.Scan.IncludeSampleSize)
	v.SetDefault("scan.respect_gitignore", defaults.Scan.RespectGitignore)
	v.SetDefault("scan.skip_dirs", defaults.Scan.SkipDirs)
	v.SetDefault("scan.extensions.source", defaults.Scan.Extensions.Source)
	v.SetDefault("scan.extensions.header", defaults.Scan.Extensions.Header)
	v.SetDefault("scan.extensions.script", defaults.Scan.Extensions.Script)
	v.SetDefault("report.output_dir", defaults.Report.OutputDir)
	v.SetDefault("report.json_file", defaults.Report.JSONFile)
	v.SetDefault("report.summary_file", defaults.Report.SummaryFile)
	v.SetDefault("pipeline.strict", defaults.Pipeline.Strict)
	v.SetDefault("dashboard.addr", defaults.Dashboard.Addr)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)

	return v
}
