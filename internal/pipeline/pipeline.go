// Package pipeline 串联扫描流程：文件分析 → 依赖分析 → 结构化报告 → Markdown 摘要。
// 每个阶段的失败都被记录在阶段结果中，不会阻断后续阶段。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cagent/internal/category"
	"cagent/internal/config"
	"cagent/internal/logger"
	"cagent/internal/model"
	"cagent/internal/report"
	"cagent/internal/scanner"
)

// Stage 是流水线阶段名称。
type Stage string

const (
	StageFiles        Stage = "files"
	StageDependencies Stage = "dependencies"
	StageReport       Stage = "report"
	StageSummary      Stage = "summary"
)

// StageResult 记录单个阶段的执行结果，Err 为 nil 表示成功。
type StageResult struct {
	Stage Stage
	Err   error
}

// Outcome 是一次流水线运行的完整产物。
type Outcome struct {
	Report      model.ScanReport
	Stages      []StageResult
	JSONPath    string
	SummaryPath string
}

// Err 汇总所有失败阶段的错误，全部成功时返回 nil。
func (o Outcome) Err() error {
	var errs []error
	for _, stage := range o.Stages {
		if stage.Err != nil {
			errs = append(errs, fmt.Errorf("%s stage: %w", stage.Stage, stage.Err))
		}
	}
	return errors.Join(errs...)
}

// Options 是流水线参数。
type Options struct {
	Project           string
	Root              string
	JSONPath          string
	SummaryPath       string
	IncludeSampleSize int
}

// Runner 执行扫描流水线。
type Runner struct {
	scanner *scanner.Service
	log     *logger.Logger
	options Options
	now     func() time.Time
}

// NewRunner 创建流水线。
func NewRunner(service *scanner.Service, log *logger.Logger, options Options) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	if options.IncludeSampleSize <= 0 {
		options.IncludeSampleSize = report.DefaultIncludeSampleSize
	}
	return &Runner{
		scanner: service,
		log:     log,
		options: options,
		now:     time.Now,
	}
}

// NewRunnerFromConfig 根据配置组装扫描服务与流水线。
func NewRunnerFromConfig(cfg *config.Config, log *logger.Logger) (*Runner, error) {
	service, err := NewScannerFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return NewRunner(service, log, Options{
		Project:           cfg.Project.Name,
		Root:              cfg.Project.Root,
		JSONPath:          cfg.JSONPath(),
		SummaryPath:       cfg.SummaryPath(),
		IncludeSampleSize: cfg.Scan.IncludeSampleSize,
	}), nil
}

// NewScannerFromConfig 根据配置创建扫描服务。
func NewScannerFromConfig(cfg *config.Config) (*scanner.Service, error) {
	registry, err := category.NewRegistryFromExtensions(cfg.ExtensionTable())
	if err != nil {
		return nil, fmt.Errorf("build category registry: %w", err)
	}

	return scanner.NewService(registry, scanner.Options{
		Workers:          cfg.Scan.Workers,
		SampleSize:       cfg.Scan.SampleSize,
		RespectGitignore: cfg.Scan.RespectGitignore,
		SkipDirs:         cfg.Scan.SkipDirs,
	}), nil
}

// WithClock 替换时间来源，测试中用于固定时间戳。
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run 执行全部阶段并返回结果。Run 本身不会失败，调用方通过 Outcome.Err 判断。
func (r *Runner) Run(ctx context.Context) Outcome {
	log := r.log.WithRoot(r.options.Root)
	outcome := Outcome{
		JSONPath:    r.options.JSONPath,
		SummaryPath: r.options.SummaryPath,
	}

	log.Infow("analyzing project", "project", r.options.Project)

	// 一次遍历同时得到两个阶段的数据，两个阶段共享同一个遍历错误。
	inventory, includes, scanErr := r.scanner.Scan(ctx, r.options.Root)

	files := report.FilesStageFrom(inventory, scanErr)
	outcome.Stages = append(outcome.Stages, StageResult{Stage: StageFiles, Err: scanErr})
	if scanErr != nil {
		log.WithStage(string(StageFiles)).Errorw("file analysis failed", "error", scanErr)
	} else {
		log.WithStage(string(StageFiles)).Infow("file structure analyzed",
			"source", inventory.Source,
			"header", inventory.Header,
			"script", inventory.Script,
			"total", inventory.Total,
			"size", inventory.ProjectSize,
		)
	}

	dependencies := report.DependenciesStageFrom(includes, scanErr, r.options.IncludeSampleSize)
	outcome.Stages = append(outcome.Stages, StageResult{Stage: StageDependencies, Err: scanErr})
	if scanErr != nil {
		log.WithStage(string(StageDependencies)).Errorw("dependency analysis failed", "error", scanErr)
	} else {
		log.WithStage(string(StageDependencies)).Infow("dependencies analyzed",
			"total", includes.Tally.Total,
			"system", includes.Tally.System,
			"local", includes.Tally.Local,
		)
	}

	outcome.Report = report.Build(r.options.Project, files, dependencies, r.now())

	persisted := report.Persist(outcome.Report, r.options.JSONPath, r.options.SummaryPath)

	jsonErr := persisted.JSON
	outcome.Stages = append(outcome.Stages, StageResult{Stage: StageReport, Err: jsonErr})
	if jsonErr != nil {
		log.WithStage(string(StageReport)).Errorw("report not written", "error", jsonErr)
	} else {
		log.WithStage(string(StageReport)).Infow("report saved", "path", r.options.JSONPath)
	}

	summaryErr := persisted.Summary
	outcome.Stages = append(outcome.Stages, StageResult{Stage: StageSummary, Err: summaryErr})
	if summaryErr != nil {
		log.WithStage(string(StageSummary)).Errorw("summary not written", "error", summaryErr)
	} else {
		log.WithStage(string(StageSummary)).Infow("summary saved", "path", r.options.SummaryPath)
	}

	log.Infow("task completed",
		"files_analyzed", outcome.Report.Summary.FilesAnalyzed,
		"dependencies_found", outcome.Report.Summary.DependenciesFound,
	)
	return outcome
}
