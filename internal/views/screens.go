package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type TaskRowData struct {
	Number     int
	ID         string
	Text       string
	Completed  bool
	Created    string
	Timer      string
	TimerState string
	Selected   bool
}

type CountsData struct {
	Total     int
	Active    int
	Completed int
}

type TaskListData struct {
	Rows      []TaskRowData
	Filter    string
	Filters   []string
	Query     string
	Counts    CountsData
	InputView string
}

type HelpPanelData struct {
	Markdown string
	HelpView string
}

type NotificationData struct {
	Level string
	Title string
	Body  string
	At    string
}

var timerColors = map[string]lipgloss.Color{
	"running": lipgloss.Color("10"),
	"paused":  lipgloss.Color("11"),
	"idle":    lipgloss.Color("12"),
	"expired": lipgloss.Color("9"),
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString(RenderFilterTabs(data.Filters, data.Filter))
	b.WriteString("\n")
	if data.Query != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("search: %q", data.Query)))
		b.WriteString("\n")
	}
	if data.InputView != "" {
		b.WriteString(data.InputView)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if len(data.Rows) == 0 {
		b.WriteString(mutedStyle.Render(emptyText(data)))
		b.WriteString("\n")
	}
	for _, row := range data.Rows {
		b.WriteString(RenderTaskRow(row))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderCounts(data.Counts))
	return strings.TrimRight(b.String(), "\n")
}

func emptyText(data TaskListData) string {
	switch {
	case data.Counts.Total == 0:
		return "No tasks yet. Press a to add one."
	case data.Query != "":
		return "No tasks match the search."
	default:
		return "No tasks in this view."
	}
}

func RenderTaskRow(row TaskRowData) string {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	box := "[ ]"
	text := row.Text
	if row.Completed {
		box = "[x]"
		text = doneStyle.Render(text)
	} else if row.Selected {
		text = selectStyle.Render(text)
	}
	line := fmt.Sprintf("%s %2d. %s %s", cursor, row.Number, box, text)
	if row.Created != "" {
		line += " " + mutedStyle.Render(row.Created)
	}
	if row.Timer != "" {
		line += " " + renderTimer(row.Timer, row.TimerState)
	}
	return line
}

func renderTimer(timer, state string) string {
	style := lipgloss.NewStyle()
	if c, ok := timerColors[state]; ok {
		style = style.Foreground(c)
	}
	label := timer
	if state == "running" {
		label = "▶ " + timer
	} else if state == "paused" {
		label = "⏸ " + timer
	}
	return style.Render(label)
}

func RenderFilterTabs(filters []string, active string) string {
	tabs := make([]string, 0, len(filters))
	for i, f := range filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == active {
			tabs = append(tabs, activeTabStyle.Render(label))
			continue
		}
		tabs = append(tabs, tabStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func RenderCounts(c CountsData) string {
	return mutedStyle.Render(fmt.Sprintf("%d total · %d active · %d completed", c.Total, c.Active, c.Completed))
}

func RenderHelpPanel(data HelpPanelData) string {
	parts := []string{}
	if md := RenderMarkdown(data.Markdown); md != "" {
		parts = append(parts, md)
	}
	if data.HelpView != "" {
		parts = append(parts, data.HelpView)
	}
	return strings.Join(parts, "\n\n")
}

func RenderNotifications(items []NotificationData) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, n := range items {
		style := statusStyle
		if n.Level == "warn" || n.Level == "error" {
			style = errorStyle
		}
		body := n.Body
		if n.Title != "" {
			body = n.Title + ": " + body
		}
		lines = append(lines, fmt.Sprintf("%s %s", mutedStyle.Render(n.At), style.Render(body)))
	}
	return strings.Join(lines, "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return "command: " + input
}

// RenderTaskTable is the non-interactive listing used by the command line.
func RenderTaskTable(rows []TaskRowData) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "DONE", "TASK", "CREATED", "TIMER", "ID")
	for _, r := range rows {
		done := ""
		if r.Completed {
			done = "x"
		}
		timer := r.Timer
		if timer != "" && r.TimerState != "" && r.TimerState != "idle" {
			timer += " (" + r.TimerState + ")"
		}
		t.Row(fmt.Sprint(r.Number), done, r.Text, r.Created, timer, shortID(r.ID))
	}
	return t.String()
}

type ScoreRowData struct {
	Student string
	Subject string
	Score   string
	Grade   string
	Color   string
	Date    string
	ID      string
}

func RenderScoreTable(rows []ScoreRowData) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("STUDENT", "SUBJECT", "SCORE", "GRADE", "DATE", "ID").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(rows) || col != 3 {
				return lipgloss.NewStyle()
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color(rows[row].Color))
		})
	for _, r := range rows {
		t.Row(r.Student, r.Subject, r.Score, r.Grade, r.Date, shortID(r.ID))
	}
	return t.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
