// Package category 负责文件分类与 #include 指令识别。
package category

import (
	"fmt"
	"sort"
	"strings"

	"cagent/internal/model"
)

// Descriptor 用于对外展示分类及后缀信息。
type Descriptor struct {
	Category   model.Category
	Extensions []string
}

// Registry 管理后缀到分类的映射。
// 后缀匹配区分大小写，与原始扫描行为保持一致（.C 不算 .c）。
type Registry struct {
	order      []model.Category
	extensions map[model.Category][]string
	byExt      map[string]model.Category
}

// DefaultExtensions 返回内置的分类后缀表。
func DefaultExtensions() map[model.Category][]string {
	return map[model.Category][]string{
		model.CategorySource: {".c"},
		model.CategoryHeader: {".h"},
		model.CategoryScript: {".py"},
	}
}

// NewRegistry 使用内置后缀表创建注册表。
func NewRegistry() *Registry {
	registry, _ := NewRegistryFromExtensions(DefaultExtensions())
	return registry
}

// NewRegistryFromExtensions 根据自定义后缀表创建注册表。
// 同一个后缀只能属于一个分类，否则返回错误。
func NewRegistryFromExtensions(table map[model.Category][]string) (*Registry, error) {
	registry := &Registry{
		order:      []model.Category{model.CategorySource, model.CategoryHeader, model.CategoryScript},
		extensions: make(map[model.Category][]string),
		byExt:      make(map[string]model.Category),
	}

	for _, category := range registry.order {
		for _, ext := range table[category] {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if owner, exists := registry.byExt[ext]; exists && owner != category {
				return nil, fmt.Errorf("extension %s assigned to both %s and %s", ext, owner, category)
			}
			registry.byExt[ext] = category
			registry.extensions[category] = append(registry.extensions[category], ext)
		}
	}

	return registry, nil
}

// Classify 根据文件名后缀返回分类。
// 使用 HasSuffix 而不是 filepath.Ext，保证 ".tar.c" 这类多段后缀同样可配。
func (r *Registry) Classify(name string) model.Category {
	best := ""
	for ext := range r.byExt {
		if strings.HasSuffix(name, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" {
		return model.CategoryUnclassified
	}
	return r.byExt[best]
}

// ScansIncludes 表示该分类的文件是否需要提取 #include。
func ScansIncludes(category model.Category) bool {
	return category == model.CategorySource || category == model.CategoryHeader
}

// Categories 返回已注册分类清单。
func (r *Registry) Categories() []Descriptor {
	result := make([]Descriptor, 0, len(r.order))
	for _, category := range r.order {
		extensions := append([]string(nil), r.extensions[category]...)
		sort.Strings(extensions)
		result = append(result, Descriptor{
			Category:   category,
			Extensions: extensions,
		})
	}
	return result
}

// ExtensionsFor 返回指定分类对应的全部后缀。
func (r *Registry) ExtensionsFor(category model.Category) []string {
	extensions := append([]string(nil), r.extensions[category]...)
	sort.Strings(extensions)
	return extensions
}
