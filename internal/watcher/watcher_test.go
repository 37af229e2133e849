package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherDebouncesRelevantWrites(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, []string{"tm_tasks_v1.json"}, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	target := filepath.Join(dir, "tm_tasks_v1.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("[]"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(3 * debounceDelay)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one debounced callback, got %d", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, []string{"tm_tasks_v1.json"}, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	if err := os.WriteFile(filepath.Join(dir, ".tasktimer.lock"), nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(3 * debounceDelay)
	if got := calls.Load(); got != 0 {
		t.Fatalf("unrelated file triggered %d callbacks", got)
	}
}

func TestNewFailsForMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), nil, func() {}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
