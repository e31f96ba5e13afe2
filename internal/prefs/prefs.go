// prefs хранит пользовательские настройки интерфейса (порядок
// сортировки дневника, тема) в JSON-файле домашнего каталога.
//
// Основные аспекты:
//   - чтение толерантное: отсутствующий или битый файл — это не
//     ошибка, а дефолтные настройки; настройки не стоят падения
//     приложения;
//   - запись атомарная: временный файл + rename, чтобы аварийное
//     завершение не оставило полузаписанный JSON;
//   - доступ сериализован мьютексом на случай конкурентных сохранений.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sebwieland/concert-journal/internal/models"
)

// Preferences — сохраняемые настройки.
type Preferences struct {
	Sort  models.SortOrder `json:"sort"`
	Theme string           `json:"theme"`
}

// Defaults — настройки свежей установки.
func Defaults() Preferences {
	return Preferences{
		Sort:  models.DefaultSortOrder(),
		Theme: "dark",
	}
}

// Store — файловое хранилище настроек.
type Store struct {
	mu   sync.Mutex
	path string
}

// DefaultPath возвращает путь по умолчанию:
// ~/.concert-journal/state.json.
func DefaultPath() (string, error) {
	const op = "prefs.DefaultPath"

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return filepath.Join(home, ".concert-journal", "state.json"), nil
}

// NewStore создаёт хранилище; пустой path заменяется на DefaultPath.
func NewStore(path string) (*Store, error) {
	const op = "prefs.NewStore"

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &Store{path: path}, nil
}

// Load читает настройки. Отсутствующий файл и невалидный JSON дают
// Defaults без ошибки; ошибкой считается только недоступность
// существующего файла (права, I/O).
func (s *Store) Load() (Preferences, error) {
	const op = "prefs.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}

		return Defaults(), fmt.Errorf("%s: %w", op, err)
	}

	p := Defaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return Defaults(), nil
	}

	if !p.Sort.Column.Valid() {
		p.Sort = models.DefaultSortOrder()
	}

	if p.Theme != "light" && p.Theme != "dark" {
		p.Theme = "dark"
	}

	return p, nil
}

// Save атомарно записывает настройки, создавая каталог при
// необходимости.
func (s *Store) Save(p Preferences) error {
	const op = "prefs.Save"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
