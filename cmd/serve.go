package cmd

import (
	"cagent/internal/config"
	"cagent/internal/dashboard"
	"cagent/internal/pipeline"

	"github.com/spf13/cobra"
)

// newServeCmd 创建 serve 子命令，启动 HTTP dashboard。
// 示例：
//
//	cagent serve ./project --addr :8080
func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	serveCmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "启动 HTTP dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := config.Overrides{Addr: addr}
			if len(args) == 1 {
				overrides.Root = args[0]
			}

			cfg, log, err := root.loadWithLogger(overrides)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			service, err := pipeline.NewScannerFromConfig(cfg)
			if err != nil {
				return err
			}

			server, err := dashboard.New(cfg, service, log)
			if err != nil {
				return err
			}
			return server.ListenAndServe(cmd.Context())
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "监听地址，默认 :8080")

	return serveCmd
}
