package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sebwieland/concert-journal/internal/models"
	"github.com/sebwieland/concert-journal/pkg/log"
)

// Events возвращает все записи дневника текущего пользователя.
func (c *Client) Events(ctx context.Context, accessToken string) ([]models.Entry, error) {
	const op = "apiclient.events.Events"

	var out []models.Entry
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/allEvents",
		bearer: accessToken,
	}, &out); err != nil {
		return nil, err
	}

	log.From(ctx).Debug("events_loaded",
		slog.String("op", op),
		slog.Int("count", len(out)),
	)

	return out, nil
}

// CreateEvent создаёт новую запись.
func (c *Client) CreateEvent(ctx context.Context, accessToken string, entry models.Entry) (models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/event",
		bearer:   accessToken,
		jsonBody: entry,
		withCSRF: true,
	}, &out); err != nil {
		return models.Entry{}, err
	}

	return out, nil
}

// UpdateEvent обновляет запись по идентификатору.
func (c *Client) UpdateEvent(ctx context.Context, accessToken string, id int64, entry models.Entry) (models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     "/event/" + strconv.FormatInt(id, 10),
		bearer:   accessToken,
		jsonBody: entry,
		withCSRF: true,
	}, &out); err != nil {
		return models.Entry{}, err
	}

	return out, nil
}

// DeleteEvent удаляет запись по идентификатору.
func (c *Client) DeleteEvent(ctx context.Context, accessToken string, id int64) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/event/" + strconv.FormatInt(id, 10),
		bearer:   accessToken,
		withCSRF: true,
	}, nil)
}
