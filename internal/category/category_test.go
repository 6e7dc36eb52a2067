package category

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"cagent/internal/model"
)

// TestClassifyDefaultExtensions 验证默认后缀表以及大小写敏感。
func TestClassifyDefaultExtensions(t *testing.T) {
	registry := NewRegistry()

	cases := map[string]model.Category{
		"main.c":      model.CategorySource,
		"util.h":      model.CategoryHeader,
		"build.py":    model.CategoryScript,
		"MAIN.C":      model.CategoryUnclassified,
		"notes.txt":   model.CategoryUnclassified,
		"Makefile":    model.CategoryUnclassified,
		"archive.pyc": model.CategoryUnclassified,
	}

	for name, expected := range cases {
		if got := registry.Classify(name); got != expected {
			t.Fatalf("classify %s: expected %s, got %s", name, expected, got)
		}
	}
}

// TestCustomExtensions 验证自定义后缀以及缺省点号的补全。
func TestCustomExtensions(t *testing.T) {
	registry, err := NewRegistryFromExtensions(map[model.Category][]string{
		model.CategorySource: {".c", "cc"},
		model.CategoryHeader: {".h", ".hpp"},
	})
	if err != nil {
		t.Fatalf("build registry failed: %v", err)
	}

	if got := registry.Classify("x.cc"); got != model.CategorySource {
		t.Fatalf("expected source for x.cc, got %s", got)
	}
	if got := registry.Classify("x.hpp"); got != model.CategoryHeader {
		t.Fatalf("expected header for x.hpp, got %s", got)
	}
	if got := registry.Classify("x.py"); got != model.CategoryUnclassified {
		t.Fatalf("expected unclassified for x.py, got %s", got)
	}
	if exts := registry.ExtensionsFor(model.CategorySource); strings.Join(exts, ",") != ".c,.cc" {
		t.Fatalf("unexpected source extensions: %v", exts)
	}
}

// TestDuplicateExtensionRejected 验证同一后缀不能属于两个分类。
func TestDuplicateExtensionRejected(t *testing.T) {
	_, err := NewRegistryFromExtensions(map[model.Category][]string{
		model.CategorySource: {".c"},
		model.CategoryHeader: {".c"},
	})
	if err == nil {
		t.Fatalf("expected duplicate extension error, got nil")
	}
}

// TestCategoriesOrder 验证分类清单顺序固定为 source/header/script。
func TestCategoriesOrder(t *testing.T) {
	descriptors := NewRegistry().Categories()
	if len(descriptors) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(descriptors))
	}
	if descriptors[0].Category != model.CategorySource ||
		descriptors[1].Category != model.CategoryHeader ||
		descriptors[2].Category != model.CategoryScript {
		t.Fatalf("unexpected order: %+v", descriptors)
	}
}

// TestIsIncludeDirective 验证前缀判断会先去除首尾空白。
func TestIsIncludeDirective(t *testing.T) {
	cases := map[string]bool{
		"#include <stdio.h>":    true,
		"   #include <a.h>":     true,
		"\t#include \"b.h\"  ":  true,
		"#includex":             true,
		"// #include <stdio.h>": false,
		"# include <stdio.h>":   false,
		"int main(void) {}":     false,
		"":                      false,
	}

	for line, expected := range cases {
		if got := IsIncludeDirective(line); got != expected {
			t.Fatalf("IsIncludeDirective(%q): expected %v, got %v", line, expected, got)
		}
	}
}

// TestClassifyDirective 覆盖 system/local/unclassified 以及歧义行。
func TestClassifyDirective(t *testing.T) {
	cases := map[string]model.IncludeKind{
		"#include <stdio.h>":     model.IncludeSystem,
		"#include \"local.h\"":   model.IncludeLocal,
		"#include <a.h> \"b.h\"": model.IncludeSystem,
		"#include CONFIG_HEADER": model.IncludeUnclassified,
		"#include <broken.h":     model.IncludeUnclassified,
	}

	for line, expected := range cases {
		if got := ClassifyDirective(line); got != expected {
			t.Fatalf("ClassifyDirective(%q): expected %s, got %s", line, expected, got)
		}
	}
}

// TestExtractIncludes 验证记录顺序、文本裁剪和计数恒等式。
func TestExtractIncludes(t *testing.T) {
	content := "#include <stdio.h>\r\n" +
		"   #include \"local.h\"\n" +
		"#include <a.h> \"b.h\"\n" +
		"#include MACRO\n" +
		"int main(void) { return 0; }\n" +
		"#include <last.h>"

	records, tally, err := ExtractIncludes("src/main.c", strings.NewReader(content))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if records[1].Include != "#include \"local.h\"" || records[1].File != "src/main.c" {
		t.Fatalf("unexpected record: %+v", records[1])
	}
	if records[4].Include != "#include <last.h>" {
		t.Fatalf("last line without newline must be kept, got %+v", records[4])
	}

	if tally.Total != 5 || tally.System != 3 || tally.Local != 1 || tally.Unclassified != 1 {
		t.Fatalf("unexpected tally: %+v", tally)
	}
	if tally.Total != tally.System+tally.Local+tally.Unclassified {
		t.Fatalf("tally invariant broken: %+v", tally)
	}
}

// TestExtractIncludesReadError 验证读取错误会原样返回。
func TestExtractIncludesReadError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := ExtractIncludes("x.c", iotest.ErrReader(boom))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
}
