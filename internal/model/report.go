package model

// FilesStage 是文件分析阶段的结果。
// Inventory 与 Error 互斥：阶段失败时只保留错误信息。
type FilesStage struct {
	Inventory *FileInventory `json:"inventory,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Failed 表示阶段是否失败。
func (s FilesStage) Failed() bool {
	return s.Error != ""
}

// TotalFiles 返回参与分析的文件数，失败时为 0。
func (s FilesStage) TotalFiles() int64 {
	if s.Inventory == nil {
		return 0
	}
	return s.Inventory.Total
}

// DependenciesStage 是依赖（#include）分析阶段的结果。
type DependenciesStage struct {
	Tally        *IncludeTally   `json:"tally,omitempty"`
	IncludesList []IncludeRecord `json:"includes_list,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// Failed 表示阶段是否失败。
func (s DependenciesStage) Failed() bool {
	return s.Error != ""
}

// TotalIncludes 返回发现的 #include 总数，失败时为 0。
func (s DependenciesStage) TotalIncludes() int64 {
	if s.Tally == nil {
		return 0
	}
	return s.Tally.Total
}

// Summary 是结构化报告中的摘要部分。
type Summary struct {
	Status            string   `json:"status"`
	FilesAnalyzed     int64    `json:"files_analyzed"`
	DependenciesFound int64    `json:"dependencies_found"`
	Recommendations   []string `json:"recommendations"`
}

// ScanReport 是一次完整扫描流水线的快照。
// 每次运行都生成新的报告，不做原地更新。
type ScanReport struct {
	Timestamp    string            `json:"timestamp"`
	Project      string            `json:"project"`
	Summary      Summary           `json:"summary"`
	Files        FilesStage        `json:"files"`
	Dependencies DependenciesStage `json:"dependencies"`
}
