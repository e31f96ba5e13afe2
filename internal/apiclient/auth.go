package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sebwieland/concert-journal/internal/models"
	"github.com/sebwieland/concert-journal/pkg/log"
	"github.com/sebwieland/concert-journal/pkg/redact"
)

// Login выполняет вход по e-mail+пароль (form-encoded, как отправляет
// историческая форма логина). Бэкенд отвечает access-токеном и ставит
// http-only refresh-cookie, которая оседает в jar клиента.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.TokenResponse, error) {
	const op = "apiclient.auth.Login"

	lg := log.From(ctx)
	lg.Info("login_request",
		slog.String("op", op),
		slog.String("email", redact.Email(creds.Email)),
		slog.String("password", redact.Password()),
	)

	form := url.Values{}
	form.Set("email", creds.Email)
	form.Set("password", creds.Password)

	var out models.TokenResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		form:   form,
	}, &out); err != nil {
		lg.Warn("login_failed", slog.String("op", op), slog.String("err", err.Error()))
		return models.TokenResponse{}, err
	}

	return out, nil
}

// Register регистрирует нового пользователя. Вход при этом НЕ
// выполняется: access-токен из ответа отбрасывается, пользователь
// логинится отдельным вызовом Login.
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	const op = "apiclient.auth.Register"

	lg := log.From(ctx)
	lg.Info("register_request",
		slog.String("op", op),
		slog.String("email", redact.Email(reg.Email)),
		slog.String("username", reg.Username),
	)

	if err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/register",
		jsonBody: reg,
	}, nil); err != nil {
		lg.Warn("register_failed", slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// Logout уведомляет бэкенд о завершении сессии (инвалидация
// refresh-cookie на его стороне). Ошибка возвращается для логирования,
// но локальный логаут от неё не зависит.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	const op = "apiclient.auth.Logout"

	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/logout",
		bearer: accessToken,
	}, nil); err != nil {
		log.From(ctx).Warn("logout_backend_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return err
	}

	return nil
}

// RefreshToken обменивает текущий access-токен (плюс refresh-cookie из
// jar) на новый access-токен.
func (c *Client) RefreshToken(ctx context.Context, accessToken string) (models.TokenResponse, error) {
	const op = "apiclient.auth.RefreshToken"

	var out models.TokenResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/refresh-token",
		bearer: accessToken,
	}, &out); err != nil {
		log.From(ctx).Warn("refresh_failed",
			slog.String("op", op),
			slog.String("token", redact.Token()),
			slog.String("err", err.Error()),
		)
		return models.TokenResponse{}, err
	}

	return out, nil
}

// BootstrapCSRF вызывает эндпойнт, который ставит cookie XSRF-TOKEN,
// и возвращает её значение из jar.
func (c *Client) BootstrapCSRF(ctx context.Context) (string, error) {
	const op = "apiclient.auth.BootstrapCSRF"

	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/login",
	}, nil); err != nil {
		return "", err
	}

	token, ok := c.CSRFToken()
	if !ok {
		log.From(ctx).Warn("csrf_cookie_missing_after_bootstrap", slog.String("op", op))
	}

	return token, nil
}
