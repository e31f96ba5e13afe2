package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry — в токене нет клейма exp.
var ErrNoExpiry = errors.New("token has no expiry claim")

// TokenExpiry извлекает срок действия access-токена из клейма exp.
// Подпись НЕ проверяется: клиент не владеет ключом бэкенда, клейм
// нужен только для отображения и диагностики, а не для доверия.
func TokenExpiry(accessToken string) (time.Time, error) {
	const op = "session.TokenExpiry"

	var claims jwt.RegisteredClaims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, ErrNoExpiry)
	}

	return claims.ExpiresAt.Time.UTC(), nil
}

// ExpiresAt возвращает срок действия текущего access-токена.
// Ошибка ErrNotLoggedIn — сессии нет.
func (m *Manager) ExpiresAt() (time.Time, error) {
	const op = "session.ExpiresAt"

	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	if token == "" {
		return time.Time{}, fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}

	return TokenExpiry(token)
}
