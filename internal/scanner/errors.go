package scanner

import (
	"errors"
	"fmt"
)

// ErrNotDirectory 表示扫描根路径存在但不是目录。
var ErrNotDirectory = errors.New("not a directory")

// FilesystemError 表示扫描根目录不存在、不可读或不是目录。
// 单个文件的读取失败不会产生该错误，而是直接跳过该文件。
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
