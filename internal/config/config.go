// Package config 定义 cagent 的配置结构，并负责从文件、.env 与环境变量加载配置。
package config

import (
	"path/filepath"
	"runtime"

	"cagent/internal/model"
)

// Config 是完整的应用配置。
type Config struct {
	Project   ProjectConfig   `yaml:"project" mapstructure:"project"`
	Scan      ScanConfig      `yaml:"scan" mapstructure:"scan"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// ProjectConfig 描述被扫描的项目。
type ProjectConfig struct {
	Name string `yaml:"name" mapstructure:"name"` // 写入报告的项目名称
	Root string `yaml:"root" mapstructure:"root"` // 扫描根目录
}

// ScanConfig 是目录遍历相关配置。
type ScanConfig struct {
	Workers           int              `yaml:"workers" mapstructure:"workers"`
	SampleSize        int              `yaml:"sample_size" mapstructure:"sample_size"`
	IncludeSampleSize int              `yaml:"include_sample_size" mapstructure:"include_sample_size"`
	RespectGitignore  bool             `yaml:"respect_gitignore" mapstructure:"respect_gitignore"`
	SkipDirs          []string         `yaml:"skip_dirs" mapstructure:"skip_dirs"`
	Extensions        ExtensionsConfig `yaml:"extensions" mapstructure:"extensions"`
}

// ExtensionsConfig 为每个文件分类列出扩展名（区分大小写）。
type ExtensionsConfig struct {
	Source []string `yaml:"source" mapstructure:"source"`
	Header []string `yaml:"header" mapstructure:"header"`
	Script []string `yaml:"script" mapstructure:"script"`
}

// ReportConfig 是报告产物的输出位置。
type ReportConfig struct {
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	JSONFile    string `yaml:"json_file" mapstructure:"json_file"`
	SummaryFile string `yaml:"summary_file" mapstructure:"summary_file"`
}

// PipelineConfig 控制阶段失败如何反馈给调用方。
type PipelineConfig struct {
	// Strict 为 true 时任一阶段失败都会让 scan 命令以非零状态退出；
	// 为 false 时流水线始终视为成功。
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// DashboardConfig 是 HTTP dashboard 配置。
type DashboardConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LoggingConfig 是日志配置。
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json 或 text
	Output string `yaml:"output" mapstructure:"output"` // stderr（默认）、stdout 或日志文件路径
}

// DefaultConfig 返回带默认值的配置。
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Name: "C-Agent",
			Root: ".",
		},
		Scan: ScanConfig{
			Workers:           runtime.NumCPU(),
			SampleSize:        5,
			IncludeSampleSize: 10,
			RespectGitignore:  false,
			SkipDirs:          []string{},
			Extensions: ExtensionsConfig{
				Source: []string{".c"},
				Header: []string{".h"},
				Script: []string{".py"},
			},
		},
		Report: ReportConfig{
			OutputDir:   "reports",
			JSONFile:    "agent_analysis.json",
			SummaryFile: "task_summary.md",
		},
		Pipeline: PipelineConfig{
			Strict: false,
		},
		Dashboard: DashboardConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// JSONPath 返回结构化报告的路径。
func (c *Config) JSONPath() string {
	return filepath.Join(c.Report.OutputDir, c.Report.JSONFile)
}

// SummaryPath 返回 Markdown 摘要的路径。
func (c *Config) SummaryPath() string {
	return filepath.Join(c.Report.OutputDir, c.Report.SummaryFile)
}

// ExtensionTable 返回构建分类注册表所需的扩展名表。
func (c *Config) ExtensionTable() map[model.Category][]string {
	return map[model.Category][]string{
		model.CategorySource: c.Scan.Extensions.Source,
		model.CategoryHeader: c.Scan.Extensions.Header,
		model.CategoryScript: c.Scan.Extensions.Script,
	}
}

// Overrides 保存命令行参数对配置文件的覆盖项，零值表示未设置。
type Overrides struct {
	Root             string
	Project          string
	OutputDir        string
	LogLevel         string
	LogFormat        string
	Workers          int
	RespectGitignore bool
	Strict           bool
	Addr             string
}

// ApplyOverrides 把命令行覆盖项叠加到配置上，只应用非零值。
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Root != "" {
		c.Project.Root = o.Root
	}
	if o.Project != "" {
		c.Project.Name = o.Project
	}
	if o.OutputDir != "" {
		c.Report.OutputDir = o.OutputDir
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.Workers > 0 {
		c.Scan.Workers = o.Workers
	}
	if o.RespectGitignore {
		c.Scan.RespectGitignore = true
	}
	if o.Strict {
		c.Pipeline.Strict = true
	}
	if o.Addr != "" {
		c.Dashboard.Addr = o.Addr
	}
}
