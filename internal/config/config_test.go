package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Пакет тестов для internal/config.
//
// Покрытие:
//   - загрузка YAML по явному пути + дефолты;
//   - overlay ENV поверх файла;
//   - ошибка на несуществующем/битом файле;
//   - ResolveBaseURL: документ, fallback при сбое, пропуск без ConfigURL.

// Вспомогательные хелперы.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

// Полный корректный YAML с заданными значениями (не зависящими от дефолтов).
const sampleYAML = `
env: "prod"
api:
  base_url: "https://api.example.org"
  config_url: "https://static.example.org/config.json"
  timeout: "5s"
session:
  refresh_interval: "90s"
  refresh_failure_limit: 3
ui:
  theme: "light"
prefs:
  path: "/tmp/cj-state.json"
`

// Некорректный YAML — для проверки ошибок парсинга.
const brokenYAML = `
api:
  base_url: [unclosed
`

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.example.org", cfg.API.BaseURL)
	require.Equal(t, "https://static.example.org/config.json", cfg.API.ConfigURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, 90*time.Second, cfg.Session.RefreshInterval)
	require.Equal(t, 3, cfg.Session.RefreshFailureLimit)
	require.Equal(t, "light", cfg.UI.Theme)
	require.Equal(t, "/tmp/cj-state.json", cfg.Prefs.Path)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "env: local\n")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	require.Equal(t, 15*time.Second, cfg.API.Timeout)
	require.Equal(t, 2*time.Minute, cfg.Session.RefreshInterval)
	require.Equal(t, 1, cfg.Session.RefreshFailureLimit)
	require.Equal(t, "dark", cfg.UI.Theme)
	require.Empty(t, cfg.Prefs.Path)
}

func TestLoad_EnvOverlay(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	t.Setenv("API_BASE_URL", "https://override.example.org")
	t.Setenv("UI_THEME", "dark")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Equal(t, "https://override.example.org", cfg.API.BaseURL)
	require.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoad_MissingFile_Error(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_BrokenYAML_Error(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
}

func TestResolveBaseURL_FromDocument(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"BACKEND_URL":"https://live.example.org/"}`))
	}))
	t.Cleanup(srv.Close)

	api := APIConfig{BaseURL: "http://fallback:8080", ConfigURL: srv.URL, Timeout: time.Second}
	got := api.ResolveBaseURL(context.Background(), srv.Client())
	require.Equal(t, "https://live.example.org", got)
}

func TestResolveBaseURL_FallbackOnFailure(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_500", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(500) }},
		{"broken_json", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{oops`)) }},
		{"empty_field", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"BACKEND_URL":""}`)) }},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tc.handler)
			t.Cleanup(srv.Close)

			api := APIConfig{BaseURL: "http://fallback:8080/", ConfigURL: srv.URL, Timeout: time.Second}
			require.Equal(t, "http://fallback:8080", api.ResolveBaseURL(context.Background(), srv.Client()))
		})
	}
}

func TestResolveBaseURL_NoConfigURL(t *testing.T) {
	t.Parallel()

	api := APIConfig{BaseURL: "http://fallback:8080"}
	require.Equal(t, "http://fallback:8080", api.ResolveBaseURL(context.Background(), nil))
}
