package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"cagent/internal/model"
)

// 摘要文档中的固定文案。
var nextSteps = []string{
	"Ejecutar análisis de seguridad",
	"Generar documentación adicional",
	"Optimizar dependencias",
	"Implementar nuevas funcionalidades",
}

// IOError 表示报告文件写入失败。
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// PersistResult 分别记录两个产物的写入结果，nil 表示写入成功。
type PersistResult struct {
	JSON    error
	Summary error
}

// Err 合并两个产物的写入错误。
func (r PersistResult) Err() error {
	return errors.Join(r.JSON, r.Summary)
}

// Persist 依次写出结构化报告和 Markdown 摘要。
// 两个文件互不影响：前一个失败时仍会尝试写后一个。
func Persist(report model.ScanReport, jsonPath string, summaryPath string) PersistResult {
	return PersistResult{
		JSON:    WriteJSONFile(jsonPath, report),
		Summary: WriteSummaryFile(summaryPath, report),
	}
}

// WriteJSONFile 将结构化报告导出到指定路径。
func WriteJSONFile(path string, report model.ScanReport) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return &IOError{Path: path, Err: fmt.Errorf("marshal json: %w", err)}
	}
	return writeFileAtomic(path, append(content, '\n'))
}

// WriteSummaryFile 将 Markdown 摘要导出到指定路径。
func WriteSummaryFile(path string, report model.ScanReport) error {
	return writeFileAtomic(path, []byte(RenderSummary(report)))
}

// TaskName 返回摘要中的任务名称。
func TaskName(project string) string {
	return "Análisis completo del proyecto " + project
}

// RenderSummary 生成 Markdown 摘要文本。
// "结果" 部分的键顺序固定，使用 orderedmap 保持插入顺序。
func RenderSummary(report model.ScanReport) string {
	results := orderedmap.NewOrderedMap[string, string]()
	results.Set("estado", "✅ Completado exitosamente")
	results.Set("archivos_analizados", fmt.Sprintf("%d", report.Summary.FilesAnalyzed))
	results.Set("dependencias_encontradas", fmt.Sprintf("%d", report.Summary.DependenciesFound))
	results.Set("seguridad", "✅ Implementada")
	results.Set("documentacion", "✅ Generada")

	var builder strings.Builder
	fmt.Fprintf(&builder, "# Resumen de Tarea %s\n\n", report.Project)
	fmt.Fprintf(&builder, "**Fecha:** %s\n\n", report.Timestamp)
	fmt.Fprintf(&builder, "**Tarea:** %s\n\n", TaskName(report.Project))
	builder.WriteString("## Resultados\n\n")
	for el := results.Front(); el != nil; el = el.Next() {
		fmt.Fprintf(&builder, "- **%s:** %s\n", el.Key, el.Value)
	}
	builder.WriteString("\n## Próximos pasos\n\n")
	for _, step := range nextSteps {
		fmt.Fprintf(&builder, "- %s\n", step)
	}
	return builder.String()
}

// writeFileAtomic 先写同目录临时文件再 rename，目标路径上不会出现半截文件。
// 如果目录不存在会自动创建。
func writeFileAtomic(path string, content []byte) error {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return &IOError{Path: path, Err: fmt.Errorf("create output directory: %w", mkErr)}
		}
	}

	tmp, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Path: path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return &IOError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &IOError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &IOError{Path: path, Err: fmt.Errorf("rename into place: %w", err)}
	}
	return nil
}
