package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCSV(t *testing.T) {
	assert.True(t, IsCSV("/data/Vet_homme.csv"))
	assert.True(t, IsCSV("X.CSV"))
	assert.False(t, IsCSV("notes.txt"))
	assert.False(t, IsCSV("csv"))
}

func TestWatchDebouncesCSVWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	got := map[string]int{}
	require.NoError(t, w.Watch(dir, func(p string) {
		mu.Lock()
		got[filepath.Base(p)]++
		mu.Unlock()
	}))

	csv := filepath.Join(dir, "a.csv")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(csv, []byte("h\n1\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got["a.csv"] >= 1
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, got["a.csv"])
	assert.Zero(t, got["ignored.txt"])
}

func TestStopIdempotent(t *testing.T) {
	w, err := New(0)
	require.NoError(t, err)
	require.NoError(t, w.Watch(t.TempDir(), func(string) {}))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
