package favorites

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/antenna/internal/station"
)

func testStation(id, name string) station.Station {
	return station.Station{UUID: id, Name: name, URL: "http://stream.example/" + id, LastCheckOK: 1}
}

func openTemp(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "antenna", "favorites.json")
	return Open(path, opts...), path
}

func readFile(t *testing.T, path string) []station.Station {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var list []station.Station
	require.NoError(t, json.Unmarshal(data, &list))
	return list
}

func ids(list []station.Station) []string {
	out := make([]string, len(list))
	for i, st := range list {
		out[i] = st.ID()
	}
	return out
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	s, path := openTemp(t)

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "opening must not create the file")
}

func TestOpen_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := Open(path)
	assert.Equal(t, 0, s.Len())

	// The store stays usable and overwrites the corrupt file.
	s.Add(testStation("a", "A"))
	assert.Equal(t, []string{"a"}, ids(readFile(t, path)))
}

func TestAdd_PersistsAndIgnoresDuplicates(t *testing.T) {
	s, path := openTemp(t)

	s.Add(testStation("a", "A"))
	s.Add(testStation("b", "B"))
	s.Add(testStation("a", "A renamed"))

	assert.Equal(t, []string{"a", "b"}, ids(s.List()))
	assert.Equal(t, "A", s.List()[0].Name)
	assert.Equal(t, []string{"a", "b"}, ids(readFile(t, path)))
}

func TestRemove(t *testing.T) {
	s, path := openTemp(t)
	s.Add(testStation("a", "A"))
	s.Add(testStation("b", "B"))

	s.Remove(testStation("a", ""))
	assert.Equal(t, []string{"b"}, ids(s.List()))

	// Removing an absent station is a no-op.
	s.Remove(testStation("zzz", ""))
	assert.Equal(t, []string{"b"}, ids(s.List()))
	assert.Equal(t, []string{"b"}, ids(readFile(t, path)))
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	s, _ := openTemp(t)
	s.Add(testStation("a", "A"))
	before := s.List()

	st := testStation("b", "B")
	assert.True(t, s.Toggle(st))
	assert.True(t, s.IsFavorite(st))
	assert.False(t, s.Toggle(st))
	assert.False(t, s.IsFavorite(st))

	assert.Equal(t, before, s.List())
}

func TestMove(t *testing.T) {
	s, path := openTemp(t)
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Add(testStation(id, id))
	}

	require.True(t, s.Move(0, 2))
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(s.List()))

	require.True(t, s.Move(3, 0))
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(s.List()))
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(readFile(t, path)))

	assert.False(t, s.Move(-1, 0))
	assert.False(t, s.Move(0, 4))
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(s.List()))
}

func TestReopen_KeepsOrder(t *testing.T) {
	s, path := openTemp(t)
	s.Add(testStation("x", "X"))
	s.Add(testStation("y", "Y"))
	s.Move(1, 0)

	reopened := Open(path)
	assert.Equal(t, []string{"y", "x"}, ids(reopened.List()))
	assert.True(t, reopened.Contains("x"))
}

func TestList_ReturnsCopy(t *testing.T) {
	s, _ := openTemp(t)
	s.Add(testStation("a", "A"))

	list := s.List()
	list[0].Name = "mutated"
	assert.Equal(t, "A", s.List()[0].Name)
}

func TestSaveError_ReportedNotFatal(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes every save fail.
	path := filepath.Join(dir, "favorites.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	var mu sync.Mutex
	var saveErrs []error
	s := Open(path, OnSaveError(func(err error) {
		mu.Lock()
		saveErrs = append(saveErrs, err)
		mu.Unlock()
	}))

	s.Add(testStation("a", "A"))

	assert.True(t, s.Contains("a"), "mutation applies even when saving fails")
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, saveErrs, 1)
}

func TestConcurrentMutations(t *testing.T) {
	s, path := openTemp(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(testStation(string(rune('a'+i)), "x"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
	assert.Len(t, readFile(t, path), 10)
}
