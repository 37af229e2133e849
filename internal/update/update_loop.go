package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktimer/internal/tasks"
	"github.com/sandeepkv93/tasktimer/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.nextTickCmd(),
		waitForChangeCmd(m.changes),
		waitForNotificationCmd(m.feed),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.Mode {
		case ModeConfirm:
			return m.handleConfirmKey(typed)
		case ModeAdd, ModeEdit, ModeSearch:
			return m.handleInputKey(typed)
		case ModePalette:
			return m.handlePaletteKey(typed)
		}
		return m.handleListKey(typed)
	case TickMsg:
		if _, err := m.store.Tick(m.ctx, typed.At); err != nil {
			m.report(err, "")
		}
		return m, m.nextTickCmd()
	case StoreChangedMsg:
		m.clampCursor()
		if typed.Change.Kind == tasks.ChangeReloaded {
			m.setStatus("reloaded tasks saved by another window", false)
		}
		return m, waitForChangeCmd(m.changes)
	case NotificationMsg:
		m.pushNotification(typed.Message)
		return m, waitForNotificationCmd(m.feed)
	case SetStatusMsg:
		m.setStatus(typed.Text, typed.IsError)
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.setStatus(typed.Err.Error(), true)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m.quit()
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.VisibleTasks())-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Add):
		return m.enterInput(ModeAdd, "")
	case key.Matches(msg, m.Keys.Edit):
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.editingID = task.ID
		return m.enterInput(ModeEdit, task.Text)
	case key.Matches(msg, m.Keys.Search):
		return m.enterInput(ModeSearch, m.Query)
	case key.Matches(msg, m.Keys.All):
		m.setFilter(filterOrder[0])
	case key.Matches(msg, m.Keys.Active):
		m.setFilter(filterOrder[1])
	case key.Matches(msg, m.Keys.Completed):
		m.setFilter(filterOrder[2])
	case key.Matches(msg, m.Keys.Toggle):
		if task, ok := m.selectedTask(); ok {
			m.toggle(task.ID)
		}
	case key.Matches(msg, m.Keys.Delete):
		if task, ok := m.selectedTask(); ok {
			m.requestDelete(task)
		}
	case key.Matches(msg, m.Keys.Timer):
		if task, ok := m.selectedTask(); ok {
			m.toggleTimer(task.ID)
		}
	case key.Matches(msg, m.Keys.Clear):
		m.requestClear()
	case key.Matches(msg, m.Keys.MarkAll):
		m.requestMarkAll()
	case key.Matches(msg, m.Keys.Palette):
		return m.enterInput(ModePalette, "")
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
	case msg.String() == "esc":
		if m.Query != "" {
			m.Query = ""
			m.setStatus("search cleared", false)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	now := m.now()
	visible := m.VisibleTasks()
	rows := make([]views.TaskRowData, 0, len(visible))
	for i, t := range visible {
		rows = append(rows, taskRow(i, t, now, i == m.Cursor))
	}
	counts := m.store.Counts()
	filters := make([]string, 0, len(filterOrder))
	for _, f := range filterOrder {
		filters = append(filters, string(f))
	}

	left := views.RenderTaskList(views.TaskListData{
		Rows:      rows,
		Filter:    string(m.Filter),
		Filters:   filters,
		Query:     m.Query,
		Counts:    views.CountsData{Total: counts.Total, Active: counts.Active, Completed: counts.Completed},
		InputView: m.inputView(),
	})

	notes := make([]views.NotificationData, 0, len(m.Notifications))
	for _, n := range m.Notifications {
		notes = append(notes, views.NotificationData{Level: string(n.Level), Title: n.Title, Body: n.Body, At: n.At.Format("15:04:05")})
	}

	prompt := views.RenderCommandPalette(m.Mode == ModePalette, m.commandInput.View())
	if m.Mode == ModeConfirm && m.Confirm != nil {
		prompt = m.Confirm.Prompt + " [y/n]"
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("tasktimer | %s | %d active", m.Filter, counts.Active),
		LeftPane:     left,
		RightPane:    strings.TrimSpace(m.renderHelpIfVisible()),
		Prompt:       prompt,
		StatusLine:   m.Status.Text,
		StatusError:  m.Status.IsError,
		Notification: views.RenderNotifications(notes),
		Footer:       m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}

func (m Model) inputView() string {
	switch m.Mode {
	case ModeAdd:
		return m.addInput.View()
	case ModeEdit:
		return m.editInput.View()
	case ModeSearch:
		return m.searchInput.View()
	default:
		return ""
	}
}
