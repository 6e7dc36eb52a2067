package category

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"cagent/internal/model"
)

// includeToken 是识别 #include 指令的字面前缀。
const includeToken = "#include"

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// IsIncludeDirective 判断一行是否为 #include 指令。
// 先去掉首尾空白再做前缀判断，"   #include <a.h>" 同样计入。
func IsIncludeDirective(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), includeToken)
}

// ClassifyDirective 对 #include 指令做分类。
//
// 规则按顺序匹配：
// - 同时包含 < 和 >：system
// - 否则包含 "：local
// - 都不满足：unclassified（只计入总数）
//
// 因此 `#include <a.h> "b.h"` 归为 system。
func ClassifyDirective(line string) model.IncludeKind {
	if strings.Contains(line, "<") && strings.Contains(line, ">") {
		return model.IncludeSystem
	}
	if strings.Contains(line, "\"") {
		return model.IncludeLocal
	}
	return model.IncludeUnclassified
}

// ExtractIncludes 流式读取文件内容并提取全部 #include 指令。
// displayPath 写入每条记录的 File 字段。
func ExtractIncludes(displayPath string, reader io.Reader) ([]model.IncludeRecord, model.IncludeTally, error) {
	var (
		records []model.IncludeRecord
		tally   model.IncludeTally
	)

	bufferedReader := bufio.NewReader(reader)

	for {
		line, err := bufferedReader.ReadString('\n')
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return records, tally, err
		}

		currentLine := normalizeLine(line)
		if IsIncludeDirective(currentLine) {
			records = append(records, model.IncludeRecord{
				File:    displayPath,
				Include: strings.TrimSpace(currentLine),
			})
			tally.Record(ClassifyDirective(currentLine))
		}

		// 最后一行即使没有换行，也已完成处理。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return records, tally, nil
}
