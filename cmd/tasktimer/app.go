package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/clierr"
	"github.com/sandeepkv93/tasktimer/internal/config"
	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/notify"
	"github.com/sandeepkv93/tasktimer/internal/storage"
	"github.com/sandeepkv93/tasktimer/internal/tasks"
	"github.com/sandeepkv93/tasktimer/internal/watcher"
)

// app holds the pieces every subcommand needs.
type app struct {
	cfg      config.Config
	blobs    storage.BlobStore
	notifier notify.Notifier
	external []*notify.Async
	closeLog func() error
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Resolve(cmd.Flags())
	if err != nil {
		return cfg, clierr.New(clierr.InvalidInput, err.Error())
	}
	if cfg.Debug {
		logging.SetDebug(true)
	}
	return cfg, nil
}

type logTarget int

const (
	logStderr logTarget = iota
	// logFile keeps log lines from drawing over the TUI.
	logFile
	// logQuiet silences one-shot commands unless debug is on.
	logQuiet
)

// openApp resolves configuration, routes logging and opens the snapshot
// backend.
func openApp(cmd *cobra.Command, target logTarget, primary notify.Notifier) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, closeLog: func() error { return nil }}
	switch {
	case target == logFile && cfg.LogFile != "":
		closer, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, clierr.New(clierr.StorageError, err.Error())
		}
		a.closeLog = closer
	case target == logQuiet && !cfg.Debug:
		logging.Discard()
	}

	a.blobs, err = openBlobs(cfg)
	if err != nil {
		_ = a.closeLog()
		return nil, clierr.New(clierr.StorageError, err.Error())
	}
	a.notifier, a.external = buildNotifier(cfg, primary)
	logging.Debug("app", "backend=%s data_dir=%s", cfg.Backend, cfg.DataDir)
	return a, nil
}

// Close lets in-flight notifications finish before releasing the backend.
func (a *app) Close() error {
	for _, n := range a.external {
		n.Wait()
	}
	err := a.blobs.Close()
	if cerr := a.closeLog(); err == nil {
		err = cerr
	}
	return err
}

func openBlobs(cfg config.Config) (storage.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryBlobStore(), nil
	case config.BackendFile:
		return storage.NewFileBlobStore(cfg.DataDir)
	default:
		return storage.OpenSQLite(cfg.DatabasePath())
	}
}

// buildNotifier keeps primary synchronous and hands desktop and Discord
// deliveries to background goroutines so a hung helper or an unreachable
// webhook never stalls a tick.
func buildNotifier(cfg config.Config, primary notify.Notifier) (notify.Notifier, []*notify.Async) {
	out := notify.Multi{}
	if primary != nil {
		out = append(out, primary)
	}
	var external []*notify.Async
	background := func(n notify.Notifier, name string) {
		a := notify.NewAsync(n, notify.DefaultAsyncTimeout, notify.DefaultAsyncLimit, func(err error) {
			logging.Warn("notify", "%s delivery failed: %v", name, err)
		})
		external = append(external, a)
		out = append(out, a)
	}
	if cfg.DesktopNotifications {
		background(notify.Desktop{}, "desktop")
	}
	if cfg.DiscordWebhookURL != "" {
		d, err := notify.NewDiscord(cfg.DiscordWebhookURL)
		if err != nil {
			logging.Warn("app", "discord notifications disabled: %v", err)
		} else {
			background(d, "discord")
		}
	}
	return out, external
}

func (a *app) openTasks(ctx context.Context) (*tasks.Store, error) {
	store, err := tasks.New(ctx, tasks.Options{
		Persistence: storage.NewTaskSnapshots(a.blobs),
		Notifier:    a.notifier,
	})
	if err != nil {
		return nil, clierr.New(clierr.StorageError, err.Error())
	}
	return store, nil
}

// watchTargets lists the directory and file names another process rewrites
// when it saves. The memory backend has nothing to watch.
func (a *app) watchTargets() (string, []string) {
	switch b := a.blobs.(type) {
	case *storage.FileBlobStore:
		return b.Dir(), []string{filepath.Base(b.Path(storage.TasksKey))}
	case *storage.SQLiteBlobStore:
		db := config.DatabaseFileName
		return a.cfg.DataDir, []string{db, db + "-wal", db + "-journal"}
	default:
		return "", nil
	}
}

// startWatcher reloads store whenever another process saves a snapshot. It
// is best effort: without it the store simply keeps its own view.
func (a *app) startWatcher(ctx context.Context, store *tasks.Store, after func()) {
	if !a.cfg.Watch {
		return
	}
	dir, names := a.watchTargets()
	if dir == "" {
		return
	}
	w, err := watcher.New(dir, names, func() {
		if err := store.Reload(ctx); errors.Is(err, tasks.ErrUnsavedChanges) {
			logging.Warn("watch", "kept local changes that are not saved yet")
			return
		} else if err != nil {
			logging.Warn("watch", "reload failed: %v", err)
			return
		}
		logging.Debug("watch", "reloaded snapshot from %s", dir)
		if after != nil {
			after()
		}
	})
	if err != nil {
		logging.Warn("watch", "live reload disabled: %v", err)
		return
	}
	go func() {
		defer w.Close()
		w.Run(ctx, func(err error) { logging.Warn("watch", "%v", err) })
	}()
}

// consoleNotifier prints notifications for non-interactive commands. One-shot
// commands already report rejections through their exit status, so warnings
// are printed only when withWarnings is set.
func consoleNotifier(withWarnings bool) notify.Notifier {
	return notify.Func(func(_ context.Context, msg notify.Message) error {
		if msg.Level == notify.LevelWarn && !withWarnings {
			return nil
		}
		_, err := fmt.Fprintln(os.Stderr, msg.Text())
		return err
	})
}
