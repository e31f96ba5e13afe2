// config предоставляет структуру конфигурации клиента и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация клиента.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл .yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	UI      UIConfig      `yaml:"ui"`
	Prefs   PrefsConfig   `yaml:"prefs"`
}

// APIConfig — параметры доступа к бэкенду.
//
// BaseURL — зашитый fallback-адрес; ConfigURL (если задан) указывает на
// статический JSON-документ, из которого адрес бэкенда подтягивается на
// старте (см. ResolveBaseURL).
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080"`
	ConfigURL string        `yaml:"config_url" env:"API_CONFIG_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"15s"`
}

// SessionConfig — параметры жизненного цикла сессии.
//
// RefreshFailureLimit — число подряд идущих «окончательных» отказов
// обновления токена (класс unauthorized), после которого клиент
// принудительно разлогинивается.
type SessionConfig struct {
	RefreshInterval     time.Duration `yaml:"refresh_interval" env:"SESSION_REFRESH_INTERVAL" env-default:"2m"`
	RefreshFailureLimit int           `yaml:"refresh_failure_limit" env:"SESSION_REFRESH_FAILURE_LIMIT" env-default:"1"`
}

// UIConfig — параметры интерфейса.
type UIConfig struct {
	Theme string `yaml:"theme" env:"UI_THEME" env-default:"dark"`
}

// PrefsConfig — размещение сохраняемых предпочтений.
// Пустой путь означает <домашняя директория>/.concert-journal/state.json.
type PrefsConfig struct {
	Path string `yaml:"path" env:"PREFS_PATH"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ВАЖНО: после чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}
