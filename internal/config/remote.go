package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sebwieland/concert-journal/pkg/log"
)

// runtimeDoc — формат статического конфигурационного документа,
// который фронтенд исторически забирает на старте.
type runtimeDoc struct {
	BackendURL string `json:"BACKEND_URL"`
}

// ResolveBaseURL возвращает адрес бэкенда для этого запуска.
//
// Если ConfigURL задан, адрес подтягивается из документа один раз на
// старте; ЛЮБОЙ сбой (сеть, статус, битый JSON, пустое поле) приводит
// к зашитому fallback-значению BaseURL, а не к ошибке запуска.
func (a APIConfig) ResolveBaseURL(ctx context.Context, client *http.Client) string {
	const op = "config.remote.ResolveBaseURL"

	if a.ConfigURL == "" {
		return strings.TrimRight(a.BaseURL, "/")
	}

	if client == nil {
		client = &http.Client{Timeout: a.Timeout}
	}

	lg := log.From(ctx)

	url, err := fetchBackendURL(ctx, client, a.ConfigURL)
	if err != nil {
		lg.Warn("runtime_config_fallback",
			slog.String("op", op),
			slog.String("config_url", a.ConfigURL),
			slog.String("err", err.Error()),
		)

		return strings.TrimRight(a.BaseURL, "/")
	}

	lg.Info("runtime_config_loaded",
		slog.String("op", op),
		slog.String("backend_url", url),
	)

	return strings.TrimRight(url, "/")
}

// fetchBackendURL загружает и разбирает конфигурационный документ.
func fetchBackendURL(ctx context.Context, client *http.Client, src string) (string, error) {
	const op = "config.remote.fetchBackendURL"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("%s: new_request: %w", op, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	var doc runtimeDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("%s: decode: %w", op, err)
	}

	if strings.TrimSpace(doc.BackendURL) == "" {
		return "", fmt.Errorf("%s: empty BACKEND_URL", op)
	}

	return doc.BackendURL, nil
}
