// apiclient — HTTP-клиент бэкенда концерт-дневника.
//
// Основные аспекты:
//   - все вызовы принимают context.Context и уважают его отмену;
//   - cookie (refresh-токен, XSRF-TOKEN) живут в cookie jar клиента;
//   - любой сбой проходит через единый классификатор internal/errors —
//     наружу не выходит ни одна сырая транспортная ошибка;
//   - повторных попыток на этом уровне нет.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	apierrors "github.com/sebwieland/concert-journal/internal/errors"
)

// maxErrBody ограничивает чтение тела ошибочного ответа.
const maxErrBody = 1 << 20 // 1 MB

// Client — клиент REST API бэкенда.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New создаёт клиент с собственным cookie jar.
// Базовый адрес фиксируется на всё время жизни клиента.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	const op = "apiclient.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: parse base url: %w", op, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s: unsupported scheme %q", op, u.Scheme)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: cookie jar: %w", op, err)
	}

	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: newRequestIDTransport(http.DefaultTransport),
		},
	}, nil
}

// BaseURL возвращает базовый адрес бэкенда.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// request — параметры одного HTTP-вызова.
type request struct {
	method     string
	path       string
	bearer     string     // access-токен для Authorization
	form       url.Values // form-encoded тело (login)
	jsonBody   any        // JSON-тело
	withCSRF   bool       // добавить заголовок X-XSRF-TOKEN из jar
	wantStatus int        // 0 — любой 2xx
}

// do выполняет запрос и декодирует JSON-ответ в out (если out != nil).
// Возвращаемая ошибка всегда классифицирована (*apierrors.Error).
func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	contentType := ""

	switch {
	case r.form != nil:
		body = strings.NewReader(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.jsonBody != nil:
		data, err := json.Marshal(r.jsonBody)
		if err != nil {
			return apierrors.FromTransport(err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL.String()+r.path, body)
	if err != nil {
		return apierrors.FromTransport(err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	if r.withCSRF {
		if token, ok := c.CSRFToken(); ok {
			req.Header.Set("X-XSRF-TOKEN", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apierrors.FromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return apierrors.FromStatus(resp.StatusCode, data)
	}

	if r.wantStatus != 0 && resp.StatusCode != r.wantStatus {
		io.Copy(io.Discard, resp.Body)
		return apierrors.FromStatus(resp.StatusCode, nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apierrors.FromTransport(fmt.Errorf("decode response: %w", err))
		}
	}

	return nil
}
