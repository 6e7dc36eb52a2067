// Package model 定义 cagent 的核心数据模型。
// 这些结构会被扫描器、报告层、流水线和 dashboard 共同使用。
package model

import "fmt"

// Category 表示文件分类。
type Category string

const (
	// CategorySource 源码文件（默认 .c）。
	CategorySource Category = "source"
	// CategoryHeader 头文件（默认 .h）。
	CategoryHeader Category = "header"
	// CategoryScript 脚本文件（默认 .py）。
	CategoryScript Category = "script"
	// CategoryUnclassified 不属于以上任何分类的文件。
	CategoryUnclassified Category = "unclassified"
)

// FileInventory 表示一次扫描得到的文件清单统计。
//
// 注意：
// - Total 只统计 source/header/script 三类，恒等于三者之和
// - AllFiles 额外包含未分类文件
// - SizeBytes 统计遍历到的所有普通文件，目录计 0
type FileInventory struct {
	Source       int64    `json:"c_files"`
	Header       int64    `json:"h_files"`
	Script       int64    `json:"py_files"`
	Total        int64    `json:"total_files"`
	Unclassified int64    `json:"unclassified_files"`
	AllFiles     int64    `json:"all_files"`
	SourceSample []string `json:"c_files_list"`
	HeaderSample []string `json:"h_files_list"`
	ScriptSample []string `json:"py_files_list"`
	SizeBytes    int64    `json:"size_bytes"`
	ProjectSize  string   `json:"project_size"`
}

// Count 返回指定分类的文件数。
func (inv FileInventory) Count(category Category) int64 {
	switch category {
	case CategorySource:
		return inv.Source
	case CategoryHeader:
		return inv.Header
	case CategoryScript:
		return inv.Script
	case CategoryUnclassified:
		return inv.Unclassified
	default:
		return 0
	}
}

// FormatKB 按 "%.2f KB" 格式化字节数。
func FormatKB(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

// IncludeKind 表示 #include 指令的分类。
type IncludeKind string

const (
	// IncludeSystem 尖括号形式，例如 #include <stdio.h>。
	IncludeSystem IncludeKind = "system"
	// IncludeLocal 引号形式，例如 #include "local.h"。
	IncludeLocal IncludeKind = "local"
	// IncludeUnclassified 两种模式都不匹配的指令（例如 #include MACRO）。
	IncludeUnclassified IncludeKind = "unclassified"
)

// IncludeRecord 记录一条 #include 指令及其来源文件。
type IncludeRecord struct {
	File    string `json:"file"`
	Include string `json:"include"`
}

// IncludeTally 是 #include 的分类计数。
// Total 恒等于 System + Local + Unclassified。
type IncludeTally struct {
	Total        int64 `json:"total_includes"`
	System       int64 `json:"system_includes"`
	Local        int64 `json:"local_includes"`
	Unclassified int64 `json:"unclassified_includes"`
}

// Record 按分类累加一条指令。
func (t *IncludeTally) Record(kind IncludeKind) {
	t.Total++
	switch kind {
	case IncludeSystem:
		t.System++
	case IncludeLocal:
		t.Local++
	default:
		t.Unclassified++
	}
}

// Add 将另一个计数叠加到当前对象。
func (t *IncludeTally) Add(other IncludeTally) {
	t.Total += other.Total
	t.System += other.System
	t.Local += other.Local
	t.Unclassified += other.Unclassified
}

// IncludeResult 是一次依赖扫描的完整产物。
// Records 不做截断，截断只发生在报告阶段。
type IncludeResult struct {
	Tally   IncludeTally    `json:"tally"`
	Records []IncludeRecord `json:"records"`
}
