package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, filepath.Base(path))
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestDue_WaitsForSettle(t *testing.T) {
	w := New(t.TempDir(), time.Second, nil, nil)
	t0 := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

	w.touch("a.xlsx", t0)
	assert.Empty(t, w.due(t0.Add(500*time.Millisecond)))

	// A later write restarts the quiet period.
	w.touch("a.xlsx", t0.Add(900*time.Millisecond))
	assert.Empty(t, w.due(t0.Add(1500*time.Millisecond)))

	assert.Equal(t, []string{"a.xlsx"}, w.due(t0.Add(2*time.Second)))
	assert.Empty(t, w.due(t0.Add(3*time.Second)), "dispatched paths are removed")
}

func TestBackfill(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.csv", "notes.txt", "~$a.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	rec := &recorder{}
	w := New(dir, 0, nil, rec.handle)
	require.NoError(t, w.Backfill(context.Background()))
	assert.ElementsMatch(t, []string{"a.xlsx", "b.csv"}, rec.seen())
}

func TestRun_DispatchesNewFile(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w := New(dir, 50*time.Millisecond, nil, rec.handle)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stock.csv"), []byte("a,b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		return len(rec.seen()) == 1
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"stock.csv"}, rec.seen())

	cancel()
	require.NoError(t, <-done)
}

func TestRun_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), 0, nil, nil)
	assert.Error(t, w.Run(context.Background()))
}
