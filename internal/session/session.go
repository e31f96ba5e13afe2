// session содержит жизненный цикл клиентской сессии:
// вход/регистрацию/выход, CSRF-бутстрап и фоновое обновление
// access-токена.
//
// Основные аспекты:
//   - Manager не глобален: он создаётся явно и передаётся зависимостям
//     (UI-слою) через внедрение, мутирует состояние только сам;
//   - мутация токена сериализована мьютексом: login/refresh/logout не
//     перетирают друг друга даже при конкурентных вызовах;
//   - подписчики получают снимок состояния после каждой мутации;
//   - ошибки приходят уже классифицированными (internal/errors) и
//     пробрасываются наверх с обёрткой op; автоматических ретраев нет.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	apierrors "github.com/sebwieland/concert-journal/internal/errors"
	"github.com/sebwieland/concert-journal/internal/models"
	"github.com/sebwieland/concert-journal/pkg/log"
	"github.com/sebwieland/concert-journal/pkg/redact"
)

var (
	// ErrNotLoggedIn — операция требует активной сессии.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrRefreshActive — на менеджере уже работает цикл обновления;
	// второй цикл запускать запрещено.
	ErrRefreshActive = errors.New("auto-refresh already running")
)

// API — внешний HTTP-коллаборатор менеджера (реализуется apiclient.Client).
type API interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenResponse, error)
	Register(ctx context.Context, reg models.Registration) error
	Logout(ctx context.Context, accessToken string) error
	RefreshToken(ctx context.Context, accessToken string) (models.TokenResponse, error)
	CSRFToken() (string, bool)
	BootstrapCSRF(ctx context.Context) (string, error)
	ClearAuthCookies()
}

// State — снимок состояния сессии для подписчиков и UI.
// Инвариант: LoggedIn == (AccessToken != "").
type State struct {
	AccessToken string
	CSRFToken   string
	LoggedIn    bool
	Loading     bool
}

// Config — параметры жизненного цикла.
type Config struct {
	// RefreshInterval — период фонового обновления токена.
	RefreshInterval time.Duration
	// RefreshFailureLimit — число подряд идущих «окончательных»
	// (unauthorized) отказов обновления до принудительного логаута.
	RefreshFailureLimit int
}

// Manager владеет состоянием сессии и фоновым циклом обновления.
type Manager struct {
	api API
	cfg Config

	mu          sync.Mutex
	accessToken string
	csrfToken   string
	loading     bool

	subs    map[int]func(State)
	nextSub int

	refreshCancel context.CancelFunc // nil, когда цикл не запущен
	refreshFails  int
}

// New создаёт менеджер сессии поверх API-коллаборатора.
func New(api API, cfg Config) *Manager {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 2 * time.Minute
	}

	if cfg.RefreshFailureLimit <= 0 {
		cfg.RefreshFailureLimit = 1
	}

	return &Manager{
		api:  api,
		cfg:  cfg,
		subs: make(map[int]func(State)),
	}
}

// Current возвращает снимок состояния.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() State {
	return State{
		AccessToken: m.accessToken,
		CSRFToken:   m.csrfToken,
		LoggedIn:    m.accessToken != "",
		Loading:     m.loading,
	}
}

// Subscribe регистрирует подписчика на изменения состояния.
// Возвращённая функция снимает подписку; подписчик вызывается вне
// мьютекса менеджера, из горутины мутирующей операции.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// notifyLocked снимает состояние и список подписчиков под мьютексом,
// а сами колбэки зовёт уже после разблокировки.
func (m *Manager) notifyLocked() func() {
	st := m.snapshotLocked()

	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}

	return func() {
		for _, fn := range fns {
			fn(st)
		}
	}
}

// Login выполняет вход. На успех: сохраняет access-токен, помечает
// сессию активной и добирает CSRF-токен. На ошибку: состояние не
// меняется, классифицированная ошибка уходит вызывающему.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) error {
	const op = "session.Login"

	m.mu.Lock()
	m.loading = true
	notify := m.notifyLocked()
	m.mu.Unlock()
	notify()

	resp, err := m.api.Login(ctx, creds)

	m.mu.Lock()
	m.loading = false
	if err != nil {
		notify = m.notifyLocked()
		m.mu.Unlock()
		notify()

		return fmt.Errorf("%s: %w", op, err)
	}

	m.accessToken = resp.AccessToken
	m.refreshFails = 0
	notify = m.notifyLocked()
	m.mu.Unlock()
	notify()

	log.From(ctx).Info("login_ok",
		slog.String("op", op),
		slog.String("email", redact.Email(creds.Email)),
	)

	// CSRF добирается сразу после входа; его сбой не отменяет вход —
	// попытка повторится перед первым state-changing запросом.
	if err := m.FetchCSRFToken(ctx); err != nil {
		log.From(ctx).Warn("csrf_after_login_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	return nil
}

// SignUp регистрирует пользователя. Вход НЕ выполняется.
// Конфликт e-mail различим по классу ошибки (errors.KindConflict).
func (m *Manager) SignUp(ctx context.Context, reg models.Registration) error {
	const op = "session.SignUp"

	if err := m.api.Register(ctx, reg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("signup_ok",
		slog.String("op", op),
		slog.String("email", redact.Email(reg.Email)),
	)

	return nil
}

// Logout — синхронный, side-effect-first: локальное состояние и
// авторизационные cookie зачищаются немедленно и безусловно; фоновый
// цикл обновления останавливается. Вызов бэкенда уходит после и его
// сбой не откатывает локальный логаут.
func (m *Manager) Logout() {
	const op = "session.Logout"

	m.mu.Lock()
	oldToken := m.accessToken
	m.accessToken = ""
	m.loading = false
	m.refreshFails = 0

	if m.refreshCancel != nil {
		m.refreshCancel()
		m.refreshCancel = nil
	}

	notify := m.notifyLocked()
	m.mu.Unlock()

	m.api.ClearAuthCookies()
	notify()

	if oldToken == "" {
		return
	}

	// Бэкенд уведомляется в фоне: локальный логаут уже состоялся.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := m.api.Logout(ctx, oldToken); err != nil {
			slog.Default().Warn("logout_backend_failed",
				slog.String("op", op),
				slog.String("token", redact.Token()),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// FetchCSRFToken — идемпотентный добор CSRF-токена: существующая
// cookie принимается без сетевого вызова, иначе зовётся бутстрап.
func (m *Manager) FetchCSRFToken(ctx context.Context) error {
	const op = "session.FetchCSRFToken"

	if token, ok := m.api.CSRFToken(); ok {
		m.adoptCSRF(token)
		return nil
	}

	token, err := m.api.BootstrapCSRF(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.adoptCSRF(token)
	return nil
}

func (m *Manager) adoptCSRF(token string) {
	m.mu.Lock()
	m.csrfToken = token
	notify := m.notifyLocked()
	m.mu.Unlock()
	notify()
}

// Refresh обменивает текущий access-токен на новый.
//
// Сбои:
//   - транзиентные (сеть, 5xx) — логируются, счётчик отказов не
//     трогается, состояние не меняется;
//   - «окончательные» (unauthorized: refresh-токен
//     недействителен/отозван) — наращивают счётчик; по достижении
//     лимита сессия принудительно закрывается: токен, который больше
//     нельзя обновить, эквивалентен разлогину.
func (m *Manager) Refresh(ctx context.Context) error {
	const op = "session.Refresh"

	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	if token == "" {
		return fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}

	resp, err := m.api.RefreshToken(ctx, token)
	if err != nil {
		if apierrors.IsKind(err, apierrors.KindUnauthorized) {
			m.mu.Lock()
			m.refreshFails++
			fails := m.refreshFails
			m.mu.Unlock()

			log.From(ctx).Warn("refresh_rejected",
				slog.String("op", op),
				slog.Int("consecutive_failures", fails),
			)

			if fails >= m.cfg.RefreshFailureLimit {
				m.Logout()
			}
		} else {
			log.From(ctx).Warn("refresh_transient_error",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	// Logout мог случиться, пока запрос был в полёте; его результат
	// главнее свежего токена.
	if m.accessToken == "" {
		m.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrNotLoggedIn)
	}

	m.accessToken = resp.AccessToken
	m.refreshFails = 0
	notify := m.notifyLocked()
	m.mu.Unlock()
	notify()

	return nil
}
