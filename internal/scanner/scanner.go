// Package scanner 实现项目扫描：目录遍历、文件分类、#include 提取与聚合。
// 一次遍历同时产出文件清单和依赖统计；文件内容读取由 worker 池并发执行，
// 结果按遍历顺序重新排列，输出与顺序扫描完全一致。
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	gitignore "github.com/monochromegane/go-gitignore"

	"cagent/internal/category"
	"cagent/internal/model"
)

// DefaultSampleSize 是每个分类保留的示例路径数量。
const DefaultSampleSize = 5

// Options 是扫描服务的可配置参数。
type Options struct {
	// Workers 为读取文件内容的并发 worker 数量，<=0 时取 CPU 数。
	Workers int
	// SampleSize 为每个分类保留的示例路径数量，<=0 时取 DefaultSampleSize。
	SampleSize int
	// RespectGitignore 为 true 时跳过根目录 .gitignore 命中的路径。
	RespectGitignore bool
	// SkipDirs 为按目录名跳过的目录列表（例如 .git、build）。
	SkipDirs []string
}

// Service 是扫描服务对象。
// 自身不保存任何扫描结果，可被多个调用方并发使用。
type Service struct {
	registry *category.Registry
	options  Options
	skipDirs map[string]struct{}
}

// includeTask 表示一个待提取 #include 的文件任务。
type includeTask struct {
	seq          int
	absolutePath string
	displayPath  string
}

// includeResult 表示 worker 的执行产物。
// 读取失败的文件 ok 为 false，聚合时直接丢弃。
type includeResult struct {
	seq     int
	ok      bool
	records []model.IncludeRecord
	tally   model.IncludeTally
}

// NewService 创建扫描服务。
func NewService(registry *category.Registry, options Options) *Service {
	if registry == nil {
		registry = category.NewRegistry()
	}
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	if options.SampleSize <= 0 {
		options.SampleSize = DefaultSampleSize
	}

	skipDirs := make(map[string]struct{}, len(options.SkipDirs))
	for _, name := range options.SkipDirs {
		if name = strings.TrimSpace(name); name != "" {
			skipDirs[name] = struct{}{}
		}
	}

	return &Service{
		registry: registry,
		options:  options,
		skipDirs: skipDirs,
	}
}

// ScanFiles 遍历 root 并返回文件清单。
func (s *Service) ScanFiles(ctx context.Context, root string) (model.FileInventory, error) {
	inventory, _, err := s.scan(ctx, root, false)
	return inventory, err
}

// ScanIncludes 遍历 root 并提取所有源码/头文件中的 #include。
// 返回的记录不做截断。
func (s *Service) ScanIncludes(ctx context.Context, root string) (model.IncludeResult, error) {
	_, includes, err := s.scan(ctx, root, true)
	return includes, err
}

// Scan 在一次遍历中同时产出文件清单和依赖统计。
func (s *Service) Scan(ctx context.Context, root string) (model.FileInventory, model.IncludeResult, error) {
	return s.scan(ctx, root, true)
}

// scan 是三个公开方法的共同实现。
func (s *Service) scan(ctx context.Context, root string, withIncludes bool) (model.FileInventory, model.IncludeResult, error) {
	inventory := model.FileInventory{
		SourceSample: make([]string, 0),
		HeaderSample: make([]string, 0),
		ScriptSample: make([]string, 0),
		ProjectSize:  model.FormatKB(0),
	}
	includes := model.IncludeResult{Records: make([]model.IncludeRecord, 0)}

	absoluteRoot, err := resolveRoot(root)
	if err != nil {
		return inventory, includes, err
	}

	matcher := s.loadGitignore(absoluteRoot)

	tasks := make(chan includeTask, s.options.Workers*4)
	results := make(chan includeResult, s.options.Workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.options.Workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			runWorker(tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		walkErrChan <- s.walk(ctx, absoluteRoot, matcher, &inventory, func(task includeTask) {
			if withIncludes {
				tasks <- task
			}
		})
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	collected := make([]includeResult, 0)
	for item := range results {
		if item.ok {
			collected = append(collected, item)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return inventory, includes, walkErr
	}

	sort.Slice(collected, func(i int, j int) bool {
		return collected[i].seq < collected[j].seq
	})
	for _, item := range collected {
		includes.Records = append(includes.Records, item.records...)
		includes.Tally.Add(item.tally)
	}

	inventory.Total = inventory.Source + inventory.Header + inventory.Script
	inventory.AllFiles = inventory.Total + inventory.Unclassified
	inventory.ProjectSize = model.FormatKB(inventory.SizeBytes)

	return inventory, includes, nil
}

// resolveRoot 校验扫描根目录，并返回解析掉符号链接后的绝对路径。
func resolveRoot(root string) (string, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return "", &FilesystemError{Op: "scan", Path: root, Err: errors.New("scan path is empty")}
	}

	absoluteRoot, err := filepath.Abs(trimmed)
	if err != nil {
		return "", &FilesystemError{Op: "resolve", Path: trimmed, Err: err}
	}

	info, err := os.Stat(absoluteRoot)
	if err != nil {
		return "", &FilesystemError{Op: "stat", Path: absoluteRoot, Err: err}
	}
	if !info.IsDir() {
		return "", &FilesystemError{Op: "scan", Path: absoluteRoot, Err: ErrNotDirectory}
	}

	// 根目录本身是符号链接时，WalkDir 不会进入，这里先解析为真实目录。
	resolvedRoot, err := filepath.EvalSymlinks(absoluteRoot)
	if err != nil {
		return "", &FilesystemError{Op: "resolve", Path: absoluteRoot, Err: err}
	}

	return resolvedRoot, nil
}

// loadGitignore 读取根目录下的 .gitignore；不存在或解析失败时返回 nil。
func (s *Service) loadGitignore(root string) gitignore.IgnoreMatcher {
	if !s.options.RespectGitignore {
		return nil
	}

	gitIgnorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); err != nil {
		return nil
	}

	matcher, err := gitignore.NewGitIgnore(gitIgnorePath, root)
	if err != nil {
		return nil
	}
	return matcher
}

// walk 遍历目录，累加文件清单，并把源码/头文件交给 enqueue。
//
// 符号链接处理：
// - 目录符号链接不跟随（filepath.WalkDir 的默认行为）
// - 文件符号链接按其指向的普通文件统计
// - 悬空链接、设备文件、管道等非普通文件直接忽略
func (s *Service) walk(
	ctx context.Context,
	root string,
	matcher gitignore.IgnoreMatcher,
	inventory *model.FileInventory,
	enqueue func(includeTask),
) error {
	seq := 0

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if walkErr != nil {
			if path == root {
				return &FilesystemError{Op: "read", Path: root, Err: walkErr}
			}
			// 子目录不可读时跳过该目录，继续其余部分。
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		if entry.IsDir() {
			if _, skip := s.skipDirs[entry.Name()]; skip {
				return fs.SkipDir
			}
			if matcher != nil && matcher.Match(path, true) {
				return fs.SkipDir
			}
			return nil
		}

		if matcher != nil && matcher.Match(path, false) {
			return nil
		}

		info, ok := regularFileInfo(path, entry)
		if !ok {
			return nil
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relativePath = path
		}
		displayPath := filepath.ToSlash(relativePath)

		inventory.SizeBytes += info.Size()

		fileCategory := s.registry.Classify(entry.Name())
		s.count(inventory, fileCategory, displayPath)

		if category.ScansIncludes(fileCategory) {
			enqueue(includeTask{
				seq:          seq,
				absolutePath: path,
				displayPath:  displayPath,
			})
			seq++
		}
		return nil
	})
}

// regularFileInfo 返回普通文件（或指向普通文件的符号链接）的元信息。
func regularFileInfo(path string, entry fs.DirEntry) (fs.FileInfo, bool) {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil, false
		}
		return info, true
	}

	if !entry.Type().IsRegular() {
		return nil, false
	}

	info, err := entry.Info()
	if err != nil {
		return nil, false
	}
	return info, true
}

// count 按分类累加计数，并在未超过上限时记录示例路径。
func (s *Service) count(inventory *model.FileInventory, fileCategory model.Category, displayPath string) {
	limit := s.options.SampleSize

	switch fileCategory {
	case model.CategorySource:
		inventory.Source++
		inventory.SourceSample = appendSample(inventory.SourceSample, displayPath, limit)
	case model.CategoryHeader:
		inventory.Header++
		inventory.HeaderSample = appendSample(inventory.HeaderSample, displayPath, limit)
	case model.CategoryScript:
		inventory.Script++
		inventory.ScriptSample = appendSample(inventory.ScriptSample, displayPath, limit)
	default:
		inventory.Unclassified++
	}
}

func appendSample(sample []string, path string, limit int) []string {
	if len(sample) >= limit {
		return sample
	}
	return append(sample, path)
}

// runWorker 读取文件并提取 #include。
// 单文件打开或读取失败时丢弃该文件的结果，不向调用方暴露错误。
func runWorker(tasks <-chan includeTask, results chan<- includeResult) {
	for task := range tasks {
		results <- extractFile(task)
	}
}

func extractFile(task includeTask) includeResult {
	file, openErr := os.Open(task.absolutePath)
	if openErr != nil {
		return includeResult{seq: task.seq}
	}
	defer file.Close()

	records, tally, err := category.ExtractIncludes(task.displayPath, file)
	if err != nil {
		return includeResult{seq: task.seq}
	}

	return includeResult{
		seq:     task.seq,
		ok:      true,
		records: records,
		tally:   tally,
	}
}

