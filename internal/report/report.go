// Package report 负责把扫描结果组装为 ScanReport 并输出。
// 输出包括结构化 JSON 报告、Markdown 摘要，以及控制台表格。
package report

import (
	"time"

	"cagent/internal/model"
)

const (
	// TimestampLayout 是报告时间戳格式（本地时间）。
	TimestampLayout = "2006-01-02 15:04:05"
	// StatusHealthy 是摘要中固定的状态值。
	StatusHealthy = "healthy"
	// DefaultProject 是默认项目标签。
	DefaultProject = "C-Agent"
	// DefaultIncludeSampleSize 是报告中保留的 #include 记录数量。
	DefaultIncludeSampleSize = 10
)

// recommendations 是固定的建议列表，不由分析结果推导。
var recommendations = []string{
	"Proyecto bien estructurado",
	"Documentación generada automáticamente",
	"Análisis de dependencias completo",
	"Seguridad implementada correctamente",
}

// Recommendations 返回固定建议列表的副本。
func Recommendations() []string {
	return append([]string(nil), recommendations...)
}

// FilesStageFrom 把 ScanFiles 的返回值转换为阶段结果。
func FilesStageFrom(inventory model.FileInventory, err error) model.FilesStage {
	if err != nil {
		return model.FilesStage{Error: err.Error()}
	}
	return model.FilesStage{Inventory: &inventory}
}

// DependenciesStageFrom 把 ScanIncludes 的返回值转换为阶段结果。
// 记录列表截断为前 limit 条，计数保持精确。
func DependenciesStageFrom(result model.IncludeResult, err error, limit int) model.DependenciesStage {
	if err != nil {
		return model.DependenciesStage{Error: err.Error()}
	}
	if limit <= 0 {
		limit = DefaultIncludeSampleSize
	}

	records := result.Records
	if len(records) > limit {
		records = records[:limit]
	}

	tally := result.Tally
	return model.DependenciesStage{
		Tally:        &tally,
		IncludesList: append(make([]model.IncludeRecord, 0, len(records)), records...),
	}
}

// Build 组装 ScanReport。除 now 之外不依赖任何外部状态。
func Build(project string, files model.FilesStage, dependencies model.DependenciesStage, now time.Time) model.ScanReport {
	if project == "" {
		project = DefaultProject
	}

	return model.ScanReport{
		Timestamp: now.Format(TimestampLayout),
		Project:   project,
		Summary: model.Summary{
			Status:            StatusHealthy,
			FilesAnalyzed:     files.TotalFiles(),
			DependenciesFound: dependencies.TotalIncludes(),
			Recommendations:   Recommendations(),
		},
		Files:        files,
		Dependencies: dependencies,
	}
}
