package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktimer/internal/commands"
	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/model"
)

type ConfirmKind string

const (
	ConfirmDelete  ConfirmKind = "delete"
	ConfirmClear   ConfirmKind = "clear"
	ConfirmMarkAll ConfirmKind = "mark_all"
)

// Confirmation is a destructive intent waiting for y/n.
type Confirmation struct {
	Kind   ConfirmKind
	TaskID string
	Prompt string
}

func (m *Model) setFilter(f model.Filter) {
	if m.Filter == f {
		return
	}
	m.Filter = f
	m.Cursor = 0
	m.setStatus("showing "+string(f)+" tasks", false)
}

func (m *Model) add(text string, d time.Duration) {
	task, err := m.store.Add(m.ctx, text, d)
	if err != nil {
		m.report(err, "")
		return
	}
	m.Cursor = 0
	m.report(nil, "added: "+logging.Truncate(task.Text, 40))
}

func (m *Model) edit(id, text string) {
	m.report(m.store.Edit(m.ctx, id, text), "task updated")
}

func (m *Model) toggle(id string) {
	m.report(m.store.Toggle(m.ctx, id), "")
	m.clampCursor()
}

func (m *Model) toggleTimer(id string) {
	if err := m.store.ToggleTimer(m.ctx, id); err != nil {
		m.report(err, "")
		return
	}
	task, err := m.store.Get(id)
	if err != nil {
		return
	}
	if task.Running && task.DueAt != nil {
		if m.ticker != nil {
			if err := m.ticker.WakeAt(*task.DueAt); err != nil {
				logging.Warn("tui", "schedule wake-up: %v", err)
			}
		}
		m.setStatus("timer started", false)
		return
	}
	m.setStatus("timer paused", false)
}

func (m *Model) requestDelete(task model.Task) {
	m.ask(Confirmation{
		Kind:   ConfirmDelete,
		TaskID: task.ID,
		Prompt: fmt.Sprintf("Delete %q?", logging.Truncate(task.Text, 40)),
	})
}

func (m *Model) requestClear() {
	counts := m.store.Counts()
	if counts.Completed == 0 {
		m.setStatus("no completed tasks to clear", false)
		return
	}
	m.ask(Confirmation{
		Kind:   ConfirmClear,
		Prompt: fmt.Sprintf("Remove %d completed task(s)?", counts.Completed),
	})
}

// requestMarkAll asks nothing on an empty list or when everything is done.
func (m *Model) requestMarkAll() {
	counts := m.store.Counts()
	if counts.Total == 0 {
		return
	}
	if counts.Active == 0 {
		m.setStatus("all tasks are already completed", false)
		return
	}
	m.ask(Confirmation{
		Kind:   ConfirmMarkAll,
		Prompt: fmt.Sprintf("Mark all %d task(s) as completed?", counts.Total),
	})
}

func (m *Model) ask(c Confirmation) {
	if !m.ConfirmDestructive {
		m.apply(c)
		return
	}
	m.Confirm = &c
	m.Mode = ModeConfirm
}

func (m *Model) apply(c Confirmation) {
	switch c.Kind {
	case ConfirmDelete:
		m.report(m.store.Delete(m.ctx, c.TaskID), "task deleted")
	case ConfirmClear:
		m.report(m.store.ClearCompleted(m.ctx), "completed tasks cleared")
	case ConfirmMarkAll:
		m.report(m.store.MarkAllCompleted(m.ctx), "all tasks completed")
	}
	m.clampCursor()
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.Confirm
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		m.Confirm = nil
		m.Mode = ModeList
		if pending != nil {
			m.apply(*pending)
		}
	case "n", "esc", "q":
		m.Confirm = nil
		m.Mode = ModeList
		m.setStatus("cancelled", false)
	}
	return m, nil
}

func (m Model) enterInput(mode Mode, value string) (tea.Model, tea.Cmd) {
	m.Mode = mode
	input := m.inputFor(mode)
	input.SetValue(value)
	input.CursorEnd()
	cmd := input.Focus()
	return m, cmd
}

func (m *Model) inputFor(mode Mode) *textinput.Model {
	switch mode {
	case ModeAdd:
		return &m.addInput
	case ModeEdit:
		return &m.editInput
	case ModeSearch:
		return &m.searchInput
	default:
		return &m.commandInput
	}
}

func (m *Model) leaveInput() {
	input := m.inputFor(m.Mode)
	input.Blur()
	input.SetValue("")
	m.Mode = ModeList
	m.editingID = ""
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.Mode
	input := m.inputFor(mode)
	switch msg.String() {
	case "esc":
		if mode == ModeSearch {
			m.Query = ""
			m.Cursor = 0
		}
		m.leaveInput()
		return m, nil
	case "enter":
		value := input.Value()
		id := m.editingID
		m.leaveInput()
		switch mode {
		case ModeAdd:
			text, d := parseAddInput(value)
			m.add(text, d)
		case ModeEdit:
			m.edit(id, value)
		case ModeSearch:
			m.Query = strings.TrimSpace(value)
			m.clampCursor()
		}
		return m, nil
	}
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if mode == ModeSearch {
		m.Query = strings.TrimSpace(input.Value())
		m.Cursor = 0
	}
	return m, cmd
}

// parseAddInput reads the quick-add line with the palette's add grammar so
// "stretch for 5 min" gets a timer.
func parseAddInput(value string) (string, time.Duration) {
	if strings.TrimSpace(value) == "" {
		return value, 0
	}
	cmd, err := commands.Parse("add " + value)
	if err != nil || cmd.Add == nil {
		return value, 0
	}
	return cmd.Add.Text, cmd.Add.Duration
}
