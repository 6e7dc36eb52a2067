package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCmd 创建 version 子命令。
// 命令示例：cagent version
func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示当前版本号",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("cagent version %s\n", version)
			cmd.Printf("  Go version: %s\n", runtime.Version())
			cmd.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
