package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktimer/internal/notify"
	"github.com/sandeepkv93/tasktimer/internal/tasks"
)

// Feed is a notifier that hands messages to the running TUI. Messages are
// dropped when the TUI is not keeping up.
type Feed struct {
	ch chan notify.Message
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 16
	}
	return &Feed{ch: make(chan notify.Message, size)}
}

func (f *Feed) Notify(_ context.Context, msg notify.Message) error {
	select {
	case f.ch <- msg:
	default:
	}
	return nil
}

func (f *Feed) C() <-chan notify.Message {
	return f.ch
}

type TickMsg struct {
	At time.Time
}

type StoreChangedMsg struct {
	Change tasks.Change
}

type NotificationMsg struct {
	Message notify.Message
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func waitForTickCmd(ch <-chan time.Time) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		at, ok := <-ch
		if !ok {
			return nil
		}
		return TickMsg{At: at}
	}
}

func waitForChangeCmd(ch <-chan tasks.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return StoreChangedMsg{Change: c}
	}
}

func waitForNotificationCmd(f *Feed) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-f.ch
		if !ok {
			return nil
		}
		return NotificationMsg{Message: msg}
	}
}

func (m Model) nextTickCmd() tea.Cmd {
	if m.ticker != nil {
		return waitForTickCmd(m.ticker.C())
	}
	return tea.Tick(m.interval, func(at time.Time) tea.Msg { return TickMsg{At: at} })
}
