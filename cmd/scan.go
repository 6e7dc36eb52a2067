package cmd

import (
	"errors"
	"fmt"
	"strings"

	"cagent/internal/config"
	"cagent/internal/pipeline"
	"cagent/internal/report"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

// scanOptions 存放 scan 命令的可配置参数。
type scanOptions struct {
	format    string
	outputDir string
	project   string
	workers   int
	gitignore bool
	strict    bool
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	cagent scan .
//	cagent scan ./project --format json --output-dir ./reports
func newScanCmd(root *rootOptions) *cobra.Command {
	options := scanOptions{format: "table"}

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描项目目录并生成分析报告",
		Long: "扫描项目目录，统计文件并提取 #include，写出 JSON 报告与 Markdown 摘要。\n" +
			"标准输出只包含结果表格（或 JSON）与产物路径；进度日志默认写到标准错误，\n" +
			"可通过 logging.output 配置改为 stdout 或日志文件。",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(options.format))
			if format != "table" && format != "json" {
				return errors.New("unsupported format, allowed values: table, json")
			}
			if options.workers < 0 {
				return errors.New("workers must not be negative (0 means CPU count)")
			}

			overrides := config.Overrides{
				Project:          options.project,
				OutputDir:        options.outputDir,
				Workers:          options.workers,
				RespectGitignore: options.gitignore,
				Strict:           options.strict,
			}
			if len(args) == 1 {
				overrides.Root = args[0]
			}

			cfg, log, err := root.loadWithLogger(overrides)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			runner, err := pipeline.NewRunnerFromConfig(cfg, log)
			if err != nil {
				return err
			}

			outcome := runner.Run(cmd.Context())

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				if err := report.PrintTable(out, outcome.Report); err != nil {
					return err
				}
			case "json":
				if err := report.PrintJSON(out, outcome.Report); err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintf(out, "\n%s\n", color.Green.Sprint("Task completed"))
			_, _ = fmt.Fprintf(out, "Report saved to %s\n", outcome.JSONPath)
			_, _ = fmt.Fprintf(out, "Summary saved to %s\n", outcome.SummaryPath)

			if stageErr := outcome.Err(); stageErr != nil {
				if cfg.Pipeline.Strict {
					return stageErr
				}
				log.Warnw("pipeline finished with stage errors", "error", stageErr)
			}
			return nil
		},
	}

	scanCmd.Flags().StringVar(&options.format, "format", options.format, "控制台输出格式: table 或 json")
	scanCmd.Flags().StringVarP(&options.outputDir, "output-dir", "o", "", "报告输出目录，默认 reports")
	scanCmd.Flags().StringVar(&options.project, "project", "", "报告中的项目名称，默认 C-Agent")
	scanCmd.Flags().IntVar(&options.workers, "workers", 0, "并发读取文件的 worker 数量，默认 CPU 数")
	scanCmd.Flags().BoolVar(&options.gitignore, "gitignore", false, "跳过根目录 .gitignore 命中的路径")
	scanCmd.Flags().BoolVar(&options.strict, "strict", false, "任一阶段失败时以非零状态退出")

	return scanCmd
}
