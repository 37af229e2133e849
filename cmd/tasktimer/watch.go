package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/scheduler"
	"github.com/sandeepkv93/tasktimer/internal/tasks"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run timers without the UI and report expiries",
	Long: `Keeps ticking every running countdown until interrupted. Expired timers
complete their task and are announced on stderr and on every configured
notifier. Tasks started from another process are picked up on reload.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cmd, logStderr, consoleNotifier(true))
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.openTasks(ctx)
	if err != nil {
		return err
	}

	ticker := scheduler.NewTicker(a.cfg.TickInterval, a.cfg.SchedulerBuffer)
	ticker.Start()
	defer ticker.Stop()
	scheduleDue(ticker, store)

	unsubscribe := store.Subscribe(func(c tasks.Change) {
		if c.Kind == tasks.ChangeReloaded {
			scheduleDue(ticker, store)
		}
	})
	defer unsubscribe()
	a.startWatcher(ctx, store, nil)

	fmt.Fprintf(os.Stderr, "Watching timers every %s; Ctrl+C to stop.\n", ticker.Interval())
	if !store.HasRunning() {
		fmt.Fprintln(os.Stderr, "No timer is running yet.")
	}
	err = watchLoop(ctx, store, ticker.C())
	if n := ticker.Dropped(); n > 0 {
		logging.Info("watch", "%d ticks dropped while busy", n)
	}
	return err
}

// watchLoop applies ticks until ctx ends or the channel closes.
func watchLoop(ctx context.Context, store *tasks.Store, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case at, ok := <-ticks:
			if !ok {
				return nil
			}
			if _, err := store.Tick(ctx, at); err != nil {
				logging.Warn("watch", "tick: %v", err)
			}
		}
	}
}
