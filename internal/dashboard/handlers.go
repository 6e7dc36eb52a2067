package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"cagent/internal/model"
	"cagent/internal/report"
)

// indexPage 是首页模板的数据。
type indexPage struct {
	Project   string
	Root      string
	Started   string
	Now       string
	GoVersion string
	Inventory *model.FileInventory
	Error     string
}

func (s *Server) startPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := indexPage{
			Project:   s.cfg.Project.Name,
			Root:      s.cfg.Project.Root,
			Started:   s.started.Format(report.TimestampLayout),
			Now:       time.Now().Format("15:04:05"),
			GoVersion: runtime.Version(),
		}

		inventory, err := s.scanner.ScanFiles(r.Context(), s.cfg.Project.Root)
		if err != nil {
			s.log.Warnw("dashboard scan failed", "error", err)
			page.Error = err.Error()
		} else {
			page.Inventory = &inventory
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.index.Execute(w, page); err != nil {
			s.log.Errorw("render dashboard", "error", err)
		}
	}
}

// status 返回请求计数、已分析文件数与运行时长。
func (s *Server) status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filesAnalyzed int64
		if inventory, err := s.scanner.ScanFiles(r.Context(), s.cfg.Project.Root); err == nil {
			filesAnalyzed = inventory.Total
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"total_requests":          s.requests.Load(),
			"files_analyzed":          filesAnalyzed,
			"vulnerabilities_found":   0,
			"documentation_generated": 1,
			"last_activity":           time.Now().Format("2006-01-02 15:04:05.000000"),
			"uptime":                  time.Since(s.started).Seconds(),
		})
	}
}

// system 返回当前进程的 Go 运行时信息。
func (s *Server) system() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		workingDir, err := os.Getwd()
		if err != nil {
			workingDir = "unknown"
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"os":          runtime.GOOS,
			"arch":        runtime.GOARCH,
			"go_version":  runtime.Version(),
			"cpus":        runtime.NumCPU(),
			"goroutines":  runtime.NumGoroutine(),
			"heap_alloc":  humanize.IBytes(mem.HeapAlloc),
			"heap_sys":    humanize.IBytes(mem.HeapSys),
			"working_dir": workingDir,
		})
	}
}

// analyze 接受任意 type 参数，返回固定的完成提示。
func (s *Server) analyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		analysisType := r.URL.Query().Get("type")
		if analysisType == "" {
			analysisType = "unknown"
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"result": fmt.Sprintf("Analysis type '%s' completed successfully", analysisType),
		})
	}
}

// latestReport 原样返回最近一次写出的 JSON 报告，不存在时返回 404。
func (s *Server) latestReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := os.ReadFile(s.cfg.JSONPath())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
				return
			}
			s.log.Errorw("read report", "path", s.cfg.JSONPath(), "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report unreadable"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

func (s *Server) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
