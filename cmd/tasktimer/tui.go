package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/scheduler"
	"github.com/sandeepkv93/tasktimer/internal/tasks"
	"github.com/sandeepkv93/tasktimer/internal/update"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	feed := update.NewFeed(16)
	a, err := openApp(cmd, logFile, feed)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store, err := a.openTasks(ctx)
	if err != nil {
		return err
	}

	ticker := scheduler.NewTicker(a.cfg.TickInterval, a.cfg.SchedulerBuffer)
	ticker.Start()
	defer ticker.Stop()
	scheduleDue(ticker, store)

	a.startWatcher(ctx, store, func() { scheduleDue(ticker, store) })

	m := update.NewModel(update.Options{
		Store:              store,
		Ticker:             ticker,
		ConfirmDestructive: a.cfg.ConfirmDestructive,
		Feed:               feed,
		Context:            ctx,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logging.Debug("tui", "exited, %d ticks dropped", ticker.Dropped())
	return nil
}

// scheduleDue asks the ticker for an extra tick at every running timer's due
// time.
func scheduleDue(ticker *scheduler.Ticker, store *tasks.Store) {
	for _, t := range store.Tasks() {
		if t.Running && t.DueAt != nil {
			_ = ticker.WakeAt(*t.DueAt)
		}
	}
}
