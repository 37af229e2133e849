package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/tasktimer/internal/commands"
	"github.com/sandeepkv93/tasktimer/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveInput()
		m.setStatus("command palette closed", false)
		return m, nil
	case "enter":
		raw := m.commandInput.Value()
		m.leaveInput()
		return m.executePaletteCommand(raw), nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) executePaletteCommand(raw string) Model {
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.add(a.Text, a.Duration)
			return commands.Result{}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			task, err := m.taskAtRow(a.Row)
			if err != nil {
				return commands.Result{}, err
			}
			m.edit(task.ID, a.Text)
			return commands.Result{}, nil
		},
		Toggle: func(a commands.RowArgs) (commands.Result, error) {
			task, err := m.taskAtRow(a.Row)
			if err != nil {
				return commands.Result{}, err
			}
			m.toggle(task.ID)
			return commands.Result{Message: fmt.Sprintf("toggled row %d", a.Row)}, nil
		},
		Delete: func(a commands.RowArgs) (commands.Result, error) {
			task, err := m.taskAtRow(a.Row)
			if err != nil {
				return commands.Result{}, err
			}
			m.requestDelete(task)
			return commands.Result{}, nil
		},
		Start: func(a commands.RowArgs) (commands.Result, error) {
			task, err := m.taskAtRow(a.Row)
			if err != nil {
				return commands.Result{}, err
			}
			if !task.Running {
				m.toggleTimer(task.ID)
			}
			return commands.Result{}, nil
		},
		Pause: func(a commands.RowArgs) (commands.Result, error) {
			task, err := m.taskAtRow(a.Row)
			if err != nil {
				return commands.Result{}, err
			}
			if task.Running {
				m.toggleTimer(task.ID)
			}
			return commands.Result{}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.setFilter(a.Filter)
			return commands.Result{Message: "showing " + string(a.Filter) + " tasks"}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.Query = strings.TrimSpace(a.Query)
			m.Cursor = 0
			if m.Query == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("searching for %q", m.Query)}, nil
		},
		Clear: func() (commands.Result, error) {
			m.requestClear()
			return commands.Result{}, nil
		},
		MarkAll: func() (commands.Result, error) {
			m.requestMarkAll()
			return commands.Result{}, nil
		},
	})
	if err != nil {
		m.setStatus(err.Error(), true)
		return m
	}
	if res.Message != "" {
		m.setStatus(res.Message, false)
	}
	return m
}

func (m Model) taskAtRow(row int) (model.Task, error) {
	visible := m.VisibleTasks()
	if row < 1 || row > len(visible) {
		return model.Task{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("no task at row %d", row),
		}
	}
	return visible[row-1], nil
}
