package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sebwieland/concert-journal/pkg/log"
)

// StartAutoRefresh запускает фоновый цикл обновления access-токена:
// первый тик через RefreshInterval, далее периодически до отмены
// контекста или логаута.
//
// Основные аспекты:
//   - на менеджере живёт не более одного цикла: повторный запуск
//     возвращает ErrRefreshActive;
//   - жизнью цикла владеет контекст вызывающего; Logout останавливает
//     цикл через производный cancel;
//   - ошибки отдельного тика не останавливают цикл — политика отказов
//     (вплоть до принудительного логаута) целиком в Refresh.
//
// Вызов блокирующий: запускать в отдельной горутине.
func (m *Manager) StartAutoRefresh(ctx context.Context) error {
	const op = "session.StartAutoRefresh"

	m.mu.Lock()
	if m.refreshCancel != nil {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrRefreshActive)
	}

	if m.accessToken == "" {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.refreshCancel = cancel
	m.mu.Unlock()

	ctx = log.With(ctx, slog.String("component", "session.refresh"))

	defer func() {
		m.mu.Lock()
		if m.refreshCancel != nil {
			m.refreshCancel()
			m.refreshCancel = nil
		}
		m.mu.Unlock()
	}()

	log.From(ctx).Info("auto_refresh_started",
		slog.String("op", op),
		slog.Duration("interval", m.cfg.RefreshInterval),
	)

	ticker := time.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			log.From(ctx).Info("auto_refresh_stopped", slog.String("op", op))
			return nil
		case <-ticker.C:
			if err := m.Refresh(loopCtx); err != nil {
				log.From(ctx).Warn("auto_refresh_tick_failed",
					slog.String("op", op),
					slog.String("err", err.Error()),
				)
			}
		}
	}
}
