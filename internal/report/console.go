package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"cagent/internal/model"
)

// maxPathWidth 是表格中路径列的最大显示宽度。
const maxPathWidth = 60

// PrintTable 使用表格展示扫描报告。
func PrintTable(writer io.Writer, report model.ScanReport) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "PROJECT\t%s\nTIMESTAMP\t%s\nSTATUS\t%s\n\n",
		report.Project, report.Timestamp, report.Summary.Status); err != nil {
		return err
	}

	if err := printFilesSection(tw, report.Files); err != nil {
		return err
	}
	if err := printDependenciesSection(tw, report.Dependencies); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(tw, "\nFILES ANALYZED\t%d\nDEPENDENCIES FOUND\t%d\n",
		report.Summary.FilesAnalyzed, report.Summary.DependenciesFound); err != nil {
		return err
	}

	return tw.Flush()
}

func printFilesSection(tw io.Writer, stage model.FilesStage) error {
	if stage.Failed() || stage.Inventory == nil {
		_, err := fmt.Fprintf(tw, "FILES\t%s\n\n", color.Red.Sprintf("error: %s", stage.Error))
		return err
	}

	inventory := stage.Inventory
	if _, err := fmt.Fprintln(tw, "CATEGORY\tFILES"); err != nil {
		return err
	}
	for _, item := range []model.Category{model.CategorySource, model.CategoryHeader, model.CategoryScript, model.CategoryUnclassified} {
		if _, err := fmt.Fprintf(tw, "%s\t%d\n", item, inventory.Count(item)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tw, "TOTAL\t%d\nSIZE\t%s (%s)\n",
		inventory.Total, inventory.ProjectSize, humanize.IBytes(uint64(inventory.SizeBytes))); err != nil {
		return err
	}

	if len(inventory.SourceSample) > 0 {
		if _, err := fmt.Fprintln(tw, "\nSOURCE SAMPLE\t"); err != nil {
			return err
		}
		for _, path := range inventory.SourceSample {
			if _, err := fmt.Fprintf(tw, "%s\t\n", truncatePath(path)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(tw)
	return err
}

func printDependenciesSection(tw io.Writer, stage model.DependenciesStage) error {
	if stage.Failed() || stage.Tally == nil {
		_, err := fmt.Fprintf(tw, "INCLUDES\t%s\n", color.Red.Sprintf("error: %s", stage.Error))
		return err
	}

	tally := stage.Tally
	if _, err := fmt.Fprintf(tw, "INCLUDES\tTOTAL\tSYSTEM\tLOCAL\tOTHER\n\t%d\t%d\t%d\t%d\n",
		tally.Total, tally.System, tally.Local, tally.Unclassified); err != nil {
		return err
	}

	if len(stage.IncludesList) > 0 {
		if _, err := fmt.Fprintln(tw, "\nFILE\tINCLUDE"); err != nil {
			return err
		}
		for _, item := range stage.IncludesList {
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", truncatePath(item.File), item.Include); err != nil {
				return err
			}
		}
	}
	return nil
}

// truncatePath 按显示宽度截断过长路径，兼容宽字符文件名。
func truncatePath(path string) string {
	return runewidth.Truncate(path, maxPathWidth, "...")
}

// PrintJSON 把扫描报告按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, report model.ScanReport) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
