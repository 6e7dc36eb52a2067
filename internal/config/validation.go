package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "text": true}
)

// Validate 校验配置，返回所有问题合并后的错误。
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Project.Root) == "" {
		errs = append(errs, errors.New("project.root is required"))
	}
	if c.Scan.Workers <= 0 {
		errs = append(errs, fmt.Errorf("scan.workers must be greater than 0, got %d", c.Scan.Workers))
	}
	if c.Scan.SampleSize <= 0 {
		errs = append(errs, fmt.Errorf("scan.sample_size must be greater than 0, got %d", c.Scan.SampleSize))
	}
	if c.Scan.IncludeSampleSize <= 0 {
		errs = append(errs, fmt.Errorf("scan.include_sample_size must be greater than 0, got %d", c.Scan.IncludeSampleSize))
	}
	if strings.TrimSpace(c.Report.JSONFile) == "" {
		errs = append(errs, errors.New("report.json_file is required"))
	}
	if strings.TrimSpace(c.Report.SummaryFile) == "" {
		errs = append(errs, errors.New("report.summary_file is required"))
	}
	if c.Report.JSONFile != "" && c.Report.JSONFile == c.Report.SummaryFile {
		errs = append(errs, errors.New("report.json_file and report.summary_file must differ"))
	}
	if !validLogLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("logging.level %q is invalid (debug, info, warn, error)", c.Logging.Level))
	}
	if !validLogFormats[c.Logging.Format] {
		errs = append(errs, fmt.Errorf("logging.format %q is invalid (json, text)", c.Logging.Format))
	}

	return errors.Join(errs...)
}
