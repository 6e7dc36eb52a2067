// Package dashboard 基于扫描结果提供一个简单的 HTTP 监控页面与 JSON 接口。
package dashboard

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"cagent/internal/config"
	"cagent/internal/logger"
	"cagent/internal/scanner"
)

//go:embed templates/index.html
var templates embed.FS

// Server 保存 dashboard 状态，每次渲染页面都会重新扫描一次文件。
type Server struct {
	cfg      *config.Config
	scanner  *scanner.Service
	log      *logger.Logger
	index    *template.Template
	started  time.Time
	requests atomic.Int64
}

// New 创建 dashboard 服务。
func New(cfg *config.Config, service *scanner.Service, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNop()
	}

	index, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:     cfg,
		scanner: service,
		log:     log,
		index:   index,
		started: time.Now(),
	}, nil
}

// Handler 返回 dashboard 路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Get("/", s.startPage())
	r.Get("/dashboard", s.startPage())
	r.Get("/api/status", s.status())
	r.Get("/api/system", s.system())
	r.Get("/api/analyze", s.analyze())
	r.Get("/api/report", s.latestReport())

	r.NotFound(s.notFound())

	return r
}

// ListenAndServe 启动 HTTP 服务，ctx 取消后优雅关闭。
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Dashboard.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Infow("dashboard started", "addr", s.cfg.Dashboard.Addr, "root", s.cfg.Project.Root)
		errChan <- server.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Infow("dashboard stopping")
		return server.Shutdown(shutdownCtx)
	}
}

// countRequests 统计所有请求，包括 404。
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}
