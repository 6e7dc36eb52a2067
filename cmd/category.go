package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"cagent/internal/category"
	"cagent/internal/config"

	"github.com/spf13/cobra"
)

// newCategoryCmd 创建 category 子命令。
// 命令用于展示当前生效的文件分类以及对应后缀（包含配置文件中的自定义后缀）。
func newCategoryCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "category",
		Short: "展示文件分类及后缀",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load(config.Overrides{})
			if err != nil {
				return err
			}

			registry, err := category.NewRegistryFromExtensions(cfg.ExtensionTable())
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "CATEGORY\tEXTENSIONS\tINCLUDES"); err != nil {
				return err
			}

			for _, item := range registry.Categories() {
				scansIncludes := "no"
				if category.ScansIncludes(item.Category) {
					scansIncludes = "yes"
				}
				if _, err := fmt.Fprintf(writer, "%s\t%s\t%s\n", item.Category, strings.Join(item.Extensions, ", "), scansIncludes); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
