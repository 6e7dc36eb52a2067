package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cagent/internal/category"
	"cagent/internal/config"
	"cagent/internal/logger"
	"cagent/internal/pipeline"
	"cagent/internal/scanner"
)

func newTestServer(t *testing.T, root string) (*Server, *config.Config) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.ApplyOverrides(config.Overrides{
		Root:      root,
		OutputDir: filepath.Join(t.TempDir(), "reports"),
		Workers:   2,
	})

	service := scanner.NewService(category.NewRegistry(), scanner.Options{Workers: 2})
	server, err := New(cfg, service, logger.NewNop())
	require.NoError(t, err)
	return server, cfg
}

func fixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range map[string]string{
		"src/main.c":   "#include <stdio.h>\n",
		"src/util.c":   "",
		"inc/util.h":   "",
		"scripts/x.py": "",
		"README":       "",
	} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestStartPage(t *testing.T) {
	server, _ := newTestServer(t, fixtureRoot(t))

	rec := get(t, server.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "C-Agent Dashboard")
	assert.Contains(t, body, "src/main.c")
	assert.Contains(t, body, "Source Files")
}

func TestDashboardAlias(t *testing.T) {
	server, _ := newTestServer(t, fixtureRoot(t))

	rec := get(t, server.Handler(), "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "C-Agent Dashboard")
	assert.Contains(t, rec.Body.String(), "src/main.c")
}

func TestStartPageMissingRoot(t *testing.T) {
	server, _ := newTestServer(t, filepath.Join(t.TempDir(), "missing"))

	rec := get(t, server.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Scan failed")
}

func TestStatus(t *testing.T) {
	server, _ := newTestServer(t, fixtureRoot(t))
	handler := server.Handler()

	get(t, handler, "/api/analyze")
	rec := get(t, handler, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decode(t, rec)
	assert.EqualValues(t, 2, payload["total_requests"])
	assert.EqualValues(t, 4, payload["files_analyzed"])
	assert.EqualValues(t, 0, payload["vulnerabilities_found"])
	assert.EqualValues(t, 1, payload["documentation_generated"])
	assert.Contains(t, payload, "last_activity")
	assert.Contains(t, payload, "uptime")
}

func TestSystem(t *testing.T) {
	server, _ := newTestServer(t, t.TempDir())

	rec := get(t, server.Handler(), "/api/system")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decode(t, rec)
	for _, key := range []string{"os", "arch", "go_version", "cpus", "goroutines", "heap_alloc"} {
		assert.Contains(t, payload, key)
	}
}

func TestAnalyzeAcceptsAnyType(t *testing.T) {
	server, _ := newTestServer(t, t.TempDir())
	handler := server.Handler()

	tests := map[string]string{
		"/api/analyze?type=dependencies": "Analysis type 'dependencies' completed successfully",
		"/api/analyze?type=whatever":     "Analysis type 'whatever' completed successfully",
		"/api/analyze":                   "Analysis type 'unknown' completed successfully",
	}

	for target, expected := range tests {
		rec := get(t, handler, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, expected, decode(t, rec)["result"])
	}
}

func TestLatestReport(t *testing.T) {
	root := fixtureRoot(t)
	server, cfg := newTestServer(t, root)
	handler := server.Handler()

	rec := get(t, handler, "/api/report")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	runner, err := pipeline.NewRunnerFromConfig(cfg, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background()).Err())

	rec = get(t, handler, "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)
	summary, ok := decode(t, rec)["summary"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 4, summary["files_analyzed"])
	assert.EqualValues(t, 1, summary["dependencies_found"])
}

func TestNotFound(t *testing.T) {
	server, _ := newTestServer(t, t.TempDir())

	rec := get(t, server.Handler(), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "not found"))
}
