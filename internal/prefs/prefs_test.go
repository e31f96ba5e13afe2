package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sebwieland/concert-journal/internal/models"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	s, err := NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	p, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, Defaults(), p)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := NewStore(path)
	require.NoError(t, err)

	want := Preferences{
		Sort:  models.SortOrder{Column: models.SortByBand, Order: models.SortAsc},
		Theme: "light",
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoad_BrokenJSONReturnsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)

	p, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, Defaults(), p)
}

func TestLoad_SanitizesUnknownValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	data := []byte(`{"sort":{"column":"mood","order":"asc"},"theme":"solarized"}`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := NewStore(path)
	require.NoError(t, err)

	p, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, models.DefaultSortOrder(), p.Sort)
	require.Equal(t, "dark", p.Theme)
}

func TestSave_OverwritesAtomically(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(Defaults()))
	require.NoError(t, s.Save(Preferences{
		Sort:  models.SortOrder{Column: models.SortByRating, Order: models.SortDesc},
		Theme: "light",
	}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, models.SortByRating, got.Sort.Column)
	require.Equal(t, "light", got.Theme)

	// Временные файлы после rename не остаются.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
