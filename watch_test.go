package nv

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderWatcherCoalescesEvents(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := WatchFolder(dir, 200*time.Millisecond, func(folder string) {
		assert.Equal(t, dir, folder)
		calls.Add(1)
	})
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, dir, w.Folder())

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writeFile(t, filepath.Join(dir, name), name)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "one callback per burst")

	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 20*time.Millisecond)
}

func TestFolderWatcherClose(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := WatchFolder(dir, 50*time.Millisecond, func(string) { calls.Add(1) })
	require.NoError(t, err)

	w.Close()
	w.Close()

	writeFile(t, filepath.Join(dir, "a.png"), "a")
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatchFolderMissing(t *testing.T) {
	_, err := WatchFolder(filepath.Join(t.TempDir(), "missing"), 0, nil)
	assert.Error(t, err)
}
