// Package cmd 提供 cagent 的命令行入口与子命令编排。
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cagent/internal/config"
	"cagent/internal/logger"

	"github.com/spf13/cobra"
)

// rootOptions 存放所有子命令共享的全局参数。
type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
// 收到 SIGINT/SIGTERM 时取消上下文，扫描与 dashboard 据此退出。
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(version).ExecuteContext(ctx)
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string) *cobra.Command {
	options := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cagent",
		Short: "C 项目文件与 #include 依赖扫描工具",
		Long: "cagent 扫描 C 项目目录，统计源码/头文件/脚本数量，\n" +
			"提取并分类 #include 指令，输出 JSON 报告与 Markdown 摘要。",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&options.configFile, "config", "c", "", "配置文件路径，默认读取当前目录 cagent.yaml（可选）")
	rootCmd.PersistentFlags().StringVar(&options.logLevel, "log-level", "", "日志级别: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&options.logFormat, "log-format", "", "日志格式: text 或 json")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newCategoryCmd(options))
	rootCmd.AddCommand(newScanCmd(options))
	rootCmd.AddCommand(newServeCmd(options))

	return rootCmd
}

// load 读取配置、叠加命令行覆盖项并校验。
func (o *rootOptions) load(overrides config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}

	overrides.LogLevel = o.logLevel
	overrides.LogFormat = o.logFormat
	cfg.ApplyOverrides(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadWithLogger 在 load 的基础上创建日志对象。
func (o *rootOptions) loadWithLogger(overrides config.Overrides) (*config.Config, *logger.Logger, error) {
	cfg, err := o.load(overrides)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}
